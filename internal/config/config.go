package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/evanschultz/todomirror/internal/domain"
)

// PreferenceBackend names a preference store implementation.
type PreferenceBackend string

const (
	BackendSQLite PreferenceBackend = "sqlite"
	BackendTOML   PreferenceBackend = "toml"
)

// DefaultBaseURL points at a locally running reference backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

type Config struct {
	Remote      RemoteConfig      `toml:"remote"`
	Preferences PreferencesConfig `toml:"preferences"`
	Logging     LoggingConfig     `toml:"logging"`
	UI          UIConfig          `toml:"ui"`
}

type RemoteConfig struct {
	BaseURL        string `toml:"base_url"`
	CollectionPath string `toml:"collection_path"`
}

type PreferencesConfig struct {
	Backend PreferenceBackend `toml:"backend"`
	Path    string            `toml:"path"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type UIConfig struct {
	DefaultFilter string `toml:"default_filter"`
	ConfirmDelete bool   `toml:"confirm_delete"`
}

func Default(prefsPath string) Config {
	return Config{
		Remote: RemoteConfig{
			BaseURL:        DefaultBaseURL,
			CollectionPath: "/todos/",
		},
		Preferences: PreferencesConfig{
			Backend: BackendSQLite,
			Path:    prefsPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".todomirror/log",
			},
		},
		UI: UIConfig{
			DefaultFilter: string(domain.FilterAll),
			ConfirmDelete: true,
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	rawURL := strings.TrimSpace(c.Remote.BaseURL)
	if rawURL == "" {
		return errors.New("remote.base_url is required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid remote.base_url %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("remote.base_url %q must use http or https", rawURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("remote.base_url %q has no host", rawURL)
	}
	if strings.ContainsAny(c.Remote.CollectionPath, "?#") {
		return fmt.Errorf("invalid remote.collection_path: %q", c.Remote.CollectionPath)
	}

	switch c.Preferences.Backend {
	case BackendSQLite, BackendTOML:
	default:
		return fmt.Errorf("invalid preferences.backend: %q", c.Preferences.Backend)
	}
	if strings.TrimSpace(c.Preferences.Path) == "" {
		return errors.New("preferences.path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if _, err := domain.ParseFilter(c.UI.DefaultFilter); err != nil {
		return fmt.Errorf("invalid ui.default_filter: %w", err)
	}

	return nil
}

// DefaultFilter returns the parsed startup view.
func (c Config) DefaultFilter() domain.Filter {
	filter, err := domain.ParseFilter(c.UI.DefaultFilter)
	if err != nil {
		return domain.FilterAll
	}
	return filter
}
