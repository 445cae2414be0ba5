package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App          AppConfig          `yaml:"app"`
	Server       ServerConfig       `yaml:"server"`
	LocalDB      LocalDBConfig      `yaml:"local_db"`
	Remote       RemoteConfig       `yaml:"remote"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Sync         SyncConfig         `yaml:"sync"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LocalDBConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RemoteMode selects how the device reaches the authoritative store.
type RemoteMode string

const (
	RemoteModeHTTP  RemoteMode = "http"
	RemoteModeMySQL RemoteMode = "mysql"
)

type RemoteConfig struct {
	Mode  RemoteMode      `yaml:"mode"`
	API   RemoteAPIConfig `yaml:"api"`
	MySQL MySQLConfig     `yaml:"mysql"`
}

type RemoteAPIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	AuthEndpoint string        `yaml:"auth_endpoint"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Timeout      time.Duration `yaml:"timeout"`
}

type MySQLConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	Charset            string        `yaml:"charset"`
	ParseTime          bool          `yaml:"parse_time"`
	Loc                string        `yaml:"loc"`
	MaxConnections     int           `yaml:"max_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
}

type ConnectivityConfig struct {
	ProbeURL     string        `yaml:"probe_url"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type SyncConfig struct {
	AutoSyncOnReconnect bool          `yaml:"auto_sync_on_reconnect"`
	Interval            time.Duration `yaml:"interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.LocalDB.Path == "" {
		c.LocalDB.Path = "rolecaller.db"
	}
	if c.LocalDB.BusyTimeout == 0 {
		c.LocalDB.BusyTimeout = 5 * time.Second
	}
	if c.Remote.Mode == "" {
		c.Remote.Mode = RemoteModeHTTP
	}
	if c.Remote.API.Timeout == 0 {
		c.Remote.API.Timeout = 30 * time.Second
	}
	if c.Connectivity.ProbeTimeout == 0 {
		c.Connectivity.ProbeTimeout = 3 * time.Second
	}
}

// MySQL DSN format: [username[:password]@][protocol[(address)]]/dbname[?param1=value1&...&paramN=valueN]
func (c *Config) RemoteDSN() string {
	m := c.Remote.MySQL
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		m.User, m.Password, m.Host, m.Port, m.Name, m.Charset, m.ParseTime, m.Loc)
}

// LocalDSN builds the SQLite connection string for the on-device cache.
func (c *Config) LocalDSN() string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL",
		c.LocalDB.Path, c.LocalDB.BusyTimeout.Milliseconds())
}
