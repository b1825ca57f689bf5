package tomlfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evanschultz/todomirror/internal/app"
)

func TestStoreDarkModeRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs", "preferences.toml")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	darkMode, err := store.LoadDarkMode(ctx)
	if err != nil {
		t.Fatalf("LoadDarkMode() error = %v", err)
	}
	if darkMode {
		t.Fatal("expected light mode for missing file")
	}
	if err := store.SaveDarkMode(ctx, true); err != nil {
		t.Fatalf("SaveDarkMode() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(content), "[preferences]") || !strings.Contains(string(content), "dark_mode") || !strings.Contains(string(content), "true") {
		t.Fatalf("unexpected file content %q", content)
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	darkMode, err = reloaded.LoadDarkMode(ctx)
	if err != nil {
		t.Fatalf("LoadDarkMode() error = %v", err)
	}
	if !darkMode {
		t.Fatal("expected persisted dark mode")
	}
}

func TestStoreKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "preferences.toml")
	if err := os.WriteFile(path, []byte("[preferences]\nlast_filter = \"pending\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := store.SaveDarkMode(ctx, false); err != nil {
		t.Fatalf("SaveDarkMode() error = %v", err)
	}
	value, ok, err := store.GetPreference(ctx, "last_filter")
	if err != nil {
		t.Fatalf("GetPreference() error = %v", err)
	}
	if !ok || value != "pending" {
		t.Fatalf("expected unrelated key kept, got %q (present=%t)", value, ok)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, got %d entries", len(entries))
	}
}

func TestStoreInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad value": "[preferences]\ndark_mode = \"perhaps\"\n",
		"bad toml":  "[preferences\ndark_mode = ",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "preferences.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			store, err := New(path)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if _, err := store.LoadDarkMode(context.Background()); !errors.Is(err, app.ErrInvalidPreference) {
				t.Fatalf("expected ErrInvalidPreference, got %v", err)
			}
		})
	}
}

func TestStoreEmptyFileMeansDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.toml")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	darkMode, err := store.LoadDarkMode(context.Background())
	if err != nil || darkMode {
		t.Fatalf("expected light mode without error, got %t %v", darkMode, err)
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
