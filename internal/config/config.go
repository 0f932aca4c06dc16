package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	xappdirs "github.com/chasinglogic/appdirs"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings rickview reads at startup.
type Config struct {
	APIBase           string
	DataDir           string
	LogFile           string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

const (
	appName                  = "rickview"
	configFileName           = "config.toml"
	logFileName              = "rickview.log"
	defaultAPIBase           = "https://rickandmortyapi.com/api"
	defaultRequestTimeout    = 10 * time.Second
	defaultRequestsPerSecond = 10
)

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(xappdirs.New(appName).UserConfig(), configFileName)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	ad := xappdirs.New(appName)
	return Config{
		APIBase:           defaultAPIBase,
		DataDir:           ad.UserData(),
		LogFile:           filepath.Join(ad.UserLog(), logFileName),
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// Load reads the config at path, falling back to defaults when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string   `toml:"api_base"`
		DataDir           string   `toml:"data_dir"`
		LogFile           string   `toml:"log_file"`
		RequestTimeout    *float64 `toml:"request_timeout"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		cfg.APIBase = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		if cfg.DataDir, err = expandPath(v); err != nil {
			return Config{}, fmt.Errorf("data_dir: %w", err)
		}
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		if cfg.LogFile, err = expandPath(v); err != nil {
			return Config{}, fmt.Errorf("log_file: %w", err)
		}
	}
	if raw.RequestTimeout != nil {
		if *raw.RequestTimeout < 0 {
			return Config{}, fmt.Errorf("request_timeout must not be negative")
		}
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeout * float64(time.Second))
	}
	if raw.RequestsPerSecond != nil {
		if *raw.RequestsPerSecond < 0 {
			return Config{}, fmt.Errorf("requests_per_second must not be negative")
		}
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}

	return cfg, nil
}

// FavoritesDir returns where favorites files live.
func (c Config) FavoritesDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return filepath.Join(Default().DataDir, "favorites")
	}
	return filepath.Join(c.DataDir, "favorites")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
