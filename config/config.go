// Package config loads the application configuration from a TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (l LogLevel) ToSlog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogFormat string

const (
	LogFormatPlaintext LogFormat = "plaintext"
	LogFormatJSON      LogFormat = "json"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Window   WindowConfig
	Log      LogConfig
	Events   EventsConfig
	Sentry   SentryConfig
}

type AppConfig struct {
	Name    string
	Version string
	Debug   bool
}

type DatabaseConfig struct {
	Path string
}

// WindowConfig is not consumed by the Go side; it is passed through so the
// frontend shell can size and title its window from the same config file.
type WindowConfig struct {
	Title  string
	Width  uint32
	Height uint32
}

type LogConfig struct {
	Format  LogFormat
	Level   LogLevel
	File    string
	Verbose bool
}

// EventsConfig toggles the in-memory event bus. When disabled the composition
// root wires the no-op bus instead; call sites never notice the difference.
type EventsConfig struct {
	Enabled bool
}

type SentryConfig struct {
	Enabled    bool
	DSN        string
	SampleRate float64
}

func (c *Config) IsTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test") ||
		strings.Contains(os.Args[0], "/_test/")
}

// Load the configuration file from the specified filesystem.
// You can specify additional .env files to load, by default this only checks
// for ".env" in the current working directory.
func Load(configFS fs.FS, dotenvFiles ...string) (*Config, error) {
	file, err := configFS.Open("config.toml")
	if err != nil {
		return nil, fmt.Errorf("could not find config.toml in the configFS: %w", err)
	}
	defer file.Close()

	reader := viper.NewWithOptions(viper.KeyDelimiter("_"))
	reader.SetConfigType("toml")
	setDefaults(reader)

	if err = reader.ReadConfig(file); err != nil {
		return nil, fmt.Errorf("could not load the app configuration: %w", err)
	}

	// Environment override
	err = godotenv.Load(dotenvFiles...)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("No .env file found, continuing...")
	} else if err != nil {
		return nil, fmt.Errorf(".env file found, but could not load it: %w", err)
	}
	reader.AutomaticEnv()

	var config Config
	if err := reader.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}

	if config.App.Debug && !config.IsTest() {
		slog.Warn("APP_DEBUG is turned on, do not run this mode in production!")
	}

	return &config, nil
}

// setDefaults registers fallbacks for keys the config file may omit.
func setDefaults(reader *viper.Viper) {
	reader.SetDefault("app_name", "Roster")
	reader.SetDefault("database_path", "roster.db")
	reader.SetDefault("window_title", "Roster")
	reader.SetDefault("window_width", 1200)
	reader.SetDefault("window_height", 800)
	reader.SetDefault("log_format", string(LogFormatPlaintext))
	reader.SetDefault("log_level", string(LogLevelInfo))
}
