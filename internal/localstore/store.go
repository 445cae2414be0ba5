// Package localstore is the durable on-device cache. Its schema mirrors the
// remote entities plus a per-record synced flag on attendance, which this
// package exclusively owns.
package localstore

import (
	"context"
	"database/sql"
	"sync"

	"github.com/CleeYOpro/rolecaller-app-sub000/internal/logger"
	apperrors "github.com/CleeYOpro/rolecaller-app-sub000/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type Store struct {
	db *sql.DB
	// Serialize writes to avoid SQLite locking issues; reads go through
	// concurrently.
	writeMu sync.Mutex
	log     zerolog.Logger
}

// Open opens (creating if needed) the SQLite database at dsn. Call Migrate
// before first use.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, apperrors.NewStoreError("open", err)
	}

	// A single connection keeps the write path simple on SQLite.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, apperrors.NewStoreError("ping", err)
	}

	return &Store{
		db:  db,
		log: logger.Component("localstore"),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schools (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		password   TEXT NOT NULL,
		address    TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id         TEXT PRIMARY KEY,
		school_id  TEXT NOT NULL,
		name       TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_classes_school ON classes(school_id)`,
	`CREATE TABLE IF NOT EXISTS students (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		grade     TEXT,
		class_id  TEXT,
		school_id TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_students_school ON students(school_id)`,
	`CREATE INDEX IF NOT EXISTS idx_students_class ON students(class_id)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id           TEXT PRIMARY KEY,
		student_id   TEXT NOT NULL,
		class_id     TEXT NOT NULL,
		date         TEXT NOT NULL,
		status       TEXT NOT NULL,
		updated_at   TIMESTAMP NOT NULL,
		teacher_name TEXT NOT NULL DEFAULT '',
		synced       INTEGER NOT NULL DEFAULT 0,
		UNIQUE(student_id, date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_class_date ON attendance(class_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_synced ON attendance(synced)`,
	`CREATE TABLE IF NOT EXISTS teacher_identities (
		id        TEXT PRIMARY KEY,
		school_id TEXT NOT NULL UNIQUE,
		name      TEXT NOT NULL
	)`,
}

// Migrate creates the schema. Safe to call more than once.
func (s *Store) Migrate(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.NewStoreError("migrate", err)
		}
	}

	s.log.Debug().Msg("Local schema ready")
	return nil
}

// exec runs a write statement under the write mutex, wrapping failures as
// fatal store errors.
func (s *Store) exec(ctx context.Context, op, query string, args ...interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStoreError(op, err)
	}
	return nil
}
