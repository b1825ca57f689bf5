package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/evanschultz/todomirror/internal/app"
)

func TestRepository_DarkModeLifecycle(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "todomirror.db")
	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	darkMode, err := repo.LoadDarkMode(ctx)
	if err != nil {
		t.Fatalf("LoadDarkMode() error = %v", err)
	}
	if darkMode {
		t.Fatal("expected light mode when nothing is stored")
	}
	if err := repo.SaveDarkMode(ctx, true); err != nil {
		t.Fatalf("SaveDarkMode() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() reopen error = %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	darkMode, err = reopened.LoadDarkMode(ctx)
	if err != nil {
		t.Fatalf("LoadDarkMode() error = %v", err)
	}
	if !darkMode {
		t.Fatal("expected dark mode to persist across reopen")
	}
	raw, err := reopened.GetPreference(ctx, app.PreferenceDarkMode)
	if err != nil {
		t.Fatalf("GetPreference() error = %v", err)
	}
	if raw != "true" {
		t.Fatalf("unexpected stored form %q", raw)
	}
}

func TestRepository_InvalidStoredValue(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	if err := repo.SetPreference(ctx, app.PreferenceDarkMode, "sometimes"); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}
	if _, err := repo.LoadDarkMode(ctx); !errors.Is(err, app.ErrInvalidPreference) {
		t.Fatalf("expected ErrInvalidPreference, got %v", err)
	}
}

func TestRepository_SetPreferenceUpserts(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	first := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return first }

	if _, err := repo.GetPreference(ctx, "theme"); !errors.Is(err, ErrPreferenceNotFound) {
		t.Fatalf("expected ErrPreferenceNotFound, got %v", err)
	}
	if err := repo.SetPreference(ctx, "theme", "a"); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}
	second := first.Add(time.Hour)
	repo.clock = func() time.Time { return second }
	if err := repo.SetPreference(ctx, "theme", "b"); err != nil {
		t.Fatalf("SetPreference() error = %v", err)
	}

	value, err := repo.GetPreference(ctx, "theme")
	if err != nil {
		t.Fatalf("GetPreference() error = %v", err)
	}
	if value != "b" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
	var updatedAt string
	if err := repo.db.QueryRowContext(ctx, `SELECT updated_at FROM preferences WHERE key = ?`, "theme").Scan(&updatedAt); err != nil {
		t.Fatalf("QueryRowContext() error = %v", err)
	}
	if updatedAt != ts(second) {
		t.Fatalf("unexpected updated_at %s", updatedAt)
	}
	if err := repo.SetPreference(ctx, "  ", "x"); err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestRepository_InMemoryDatabasesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	b, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	if err := a.SaveDarkMode(ctx, true); err != nil {
		t.Fatalf("SaveDarkMode() error = %v", err)
	}
	darkMode, err := b.LoadDarkMode(ctx)
	if err != nil {
		t.Fatalf("LoadDarkMode() error = %v", err)
	}
	if darkMode {
		t.Fatal("expected separate in-memory databases")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
