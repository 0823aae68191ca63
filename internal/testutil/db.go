// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/simp-lee/leadboard/internal/config"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewSQLite opens a migrated SQLite database in a temporary directory that
// is removed when the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	db, err := config.SetupDatabase(cfg, DiscardLogger())
	if err != nil {
		t.Fatalf("SetupDatabase() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if _, err := config.Migrate(context.Background(), db, "sqlite", DiscardLogger()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}
