package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/api"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/config"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/connectivity"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/gateway"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/localstore"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/remote"
	"github.com/CleeYOpro/rolecaller-app-sub000/internal/syncer"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting attendance sync daemon")

	// Open the on-device cache
	local, err := localstore.Open(cfg.LocalDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer local.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := local.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate local store")
	}

	// Build the remote store
	var remoteStore remote.Store
	switch cfg.Remote.Mode {
	case config.RemoteModeMySQL:
		sqlStore, err := remote.NewSQLStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to remote database")
		}
		defer sqlStore.Close()
		remoteStore = sqlStore
	default:
		remoteStore = remote.NewAPIClient(cfg.Remote.API)
	}

	// Connectivity oracle
	probeCfg := cfg.Connectivity
	if probeCfg.ProbeURL == "" {
		probeCfg.ProbeURL = cfg.Remote.API.BaseURL + "/health"
	}
	oracle := connectivity.NewOracle(connectivity.NewHTTPProber(probeCfg))

	// Core wiring
	gw := gateway.New(local, remoteStore, oracle)
	syn := syncer.New(local, remoteStore)

	// Auto-sync worker
	autoSync := syncer.NewAutoSync(cfg.Sync, syn, gw, oracle)
	go func() {
		if err := autoSync.Start(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Auto-sync worker stopped")
		}
	}()

	// HTTP surface for the UI shell
	handler := api.NewHandler(gw, syn, cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.CORSMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.RecoveryMiddleware())

	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Daemon exited")
}
