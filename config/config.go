package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"rssreader/engine"
	"rssreader/feeds"

	"github.com/BurntSushi/toml"
)

const (
	DefaultStoreDirName = "feeds"
	DefaultFileName     = "rssreader.toml"
	DefaultRetries      = 2
	DefaultLogLevel     = "warn"
)

// Duration reads TOML strings such as "30s" or "1m30s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config represents the top-level configuration
type Config struct {
	StoreDir  string   `toml:"store_dir"`
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
	Retries   int      `toml:"retries"`
	Workers   int      `toml:"workers"`
	LogLevel  string   `toml:"log_level"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		StoreDir:  DefaultStoreDir(),
		Timeout:   Duration{feeds.DefaultTimeout},
		UserAgent: feeds.DefaultUserAgent,
		Retries:   DefaultRetries,
		Workers:   engine.DefaultWorkers,
		LogLevel:  DefaultLogLevel,
	}
}

// DefaultStoreDir is the feeds directory next to the running executable
func DefaultStoreDir() string {
	return filepath.Join(executableDir(), DefaultStoreDirName)
}

// DefaultPath is the config file next to the running executable
func DefaultPath() string {
	return filepath.Join(executableDir(), DefaultFileName)
}

// executableDir falls back to the working directory if the executable
// cannot be located.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// LoadConfig reads the TOML file at path on top of the defaults. Keys that
// are missing from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// LoadOptional is LoadConfig for a file that does not have to exist
func LoadOptional(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}
