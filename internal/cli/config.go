package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds CLI defaults read from flowline.toml. Command-line flags
// override config values, which override built-in defaults.
type Config struct {
	// Layout defaults
	Mode      string `toml:"mode"`
	Direction string `toml:"direction"`
	NoEngine  bool   `toml:"no_engine"`

	// CacheDir overrides the XDG cache location.
	CacheDir string `toml:"cache_dir"`

	// Serve holds API server defaults.
	Serve ServeConfig `toml:"serve"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr      string `toml:"addr"`
	MongoURI  string `toml:"mongo_uri"`
	MongoDB   string `toml:"mongo_db"`
	RedisAddr string `toml:"redis_addr"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Serve: ServeConfig{
			Addr:    ":8080",
			MongoDB: appName,
		},
	}
}

// LoadConfig reads the first config file found, falling back to defaults.
// Search order: $FLOWLINE_CONFIG, ./flowline.toml, ~/.config/flowline/flowline.toml.
// A malformed file is ignored rather than aborting the CLI.
func LoadConfig() *Config {
	cfg := defaultConfig()
	for _, path := range configPaths() {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return defaultConfig()
		}
		break
	}
	return cfg
}

func configPaths() []string {
	paths := []string{
		os.Getenv("FLOWLINE_CONFIG"),
		appName + ".toml",
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		paths = append(paths, filepath.Join(configHome, appName, appName+".toml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, appName+".toml"))
	}
	return paths
}
