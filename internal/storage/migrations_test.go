package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrateFromFreshDatabase(t *testing.T) {
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != 0 {
		t.Errorf("Expected version 0 before migrating, got %d", version)
	}

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	version, err = store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Expected version %d, got %d", ExpectedSchemaVersion, version)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migrate failed: %v", err)
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Expected version %d, got %d", ExpectedSchemaVersion, version)
	}
}

func TestMigrationsAreOrdered(t *testing.T) {
	last := 0
	for _, m := range migrations {
		if m.Version <= last {
			t.Errorf("Migration %d out of order after %d", m.Version, last)
		}
		if m.Description == "" {
			t.Errorf("Migration %d has no description", m.Version)
		}
		last = m.Version
	}
	if last != ExpectedSchemaVersion {
		t.Errorf("Latest migration is %d, expected %d", last, ExpectedSchemaVersion)
	}
}

func TestNewSQLiteStorageRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestNewSQLiteStorageCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "driveline.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("Failed to create storage in nested directory: %v", err)
	}
	_ = store.Close()
}
