package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-level settings read from the config file. Flags override
// config values, and config values override the built-in defaults.
type Config struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
	Theme    string `toml:"theme"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	CacheDir string `toml:"cache_dir"`
}

// LoadConfig reads the user's config file and applies environment overrides.
// A missing or unreadable file yields an empty config; a malformed file is
// ignored the same way so the CLI stays usable.
func LoadConfig() *Config {
	cfg := &Config{}
	if path, err := configPath(); err == nil {
		_, _ = toml.DecodeFile(path, cfg)
	}
	cfg.applyEnv()
	return cfg
}

// loadConfigFrom reads a specific config file. Used by tests and --config.
func loadConfigFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override file values, so credentials
// can stay out of the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("INKBOARD_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("INKBOARD_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("INKBOARD_MODEL"); v != "" {
		c.Model = v
	}
}

// configPath returns the config file location using the XDG standard
// (~/.config/inkboard/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
