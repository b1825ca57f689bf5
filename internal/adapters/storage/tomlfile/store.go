package tomlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/evanschultz/todomirror/internal/app"
)

// document is the on-disk layout.
type document struct {
	Preferences map[string]string `toml:"preferences"`
}

// Store persists display preferences in a small TOML file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a store backed by path. The file is created on first write.
func New(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("preferences file path is required")
	}
	return &Store{path: path}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// GetPreference returns the stored value for key and whether it was present.
func (s *Store) GetPreference(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := doc.Preferences[key]
	return value, ok, nil
}

// SetPreference writes value for key, keeping other keys intact.
func (s *Store) SetPreference(_ context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("preference key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if doc.Preferences == nil {
		doc.Preferences = map[string]string{}
	}
	doc.Preferences[key] = value
	return s.write(doc)
}

// LoadDarkMode returns the stored display preference. A missing file or key means light mode.
func (s *Store) LoadDarkMode(ctx context.Context) (bool, error) {
	raw, ok, err := s.GetPreference(ctx, app.PreferenceDarkMode)
	if err != nil || !ok {
		return false, err
	}
	return app.ParseDarkMode(raw)
}

// SaveDarkMode stores the display preference.
func (s *Store) SaveDarkMode(ctx context.Context, darkMode bool) error {
	return s.SetPreference(ctx, app.PreferenceDarkMode, app.FormatDarkMode(darkMode))
}

func (s *Store) read() (document, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return document{}, fmt.Errorf("read preferences %q: %w", s.path, err)
	}
	var doc document
	if len(strings.TrimSpace(string(content))) == 0 {
		return doc, nil
	}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return document{}, fmt.Errorf("%w: decode preferences %q: %w", app.ErrInvalidPreference, s.path, err)
	}
	return doc, nil
}

// write replaces the file through a sibling temp file so readers never see a partial document.
func (s *Store) write(doc document) error {
	encoded, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create preferences temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write preferences temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close preferences temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace preferences %q: %w", s.path, err)
	}
	return nil
}

var _ app.PreferenceStore = (*Store)(nil)
