package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// ErrInvalidSettings is returned when a resolved setting fails validation.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the user-tunable runtime configuration.
type Settings struct {
	// DataFile forces the birthdays file path. Empty means "search the usual places".
	DataFile string `koanf:"data_file"`

	// Language selects the output translations (ISO 639-1).
	Language string `koanf:"language"`

	// Timezone is the default zone for entries without one. Empty means the system zone.
	Timezone string `koanf:"timezone"`

	// LogLevel controls verbosity of the log file: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DateFormat is the Go layout used for the Date column.
	DateFormat string `koanf:"date_format"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() *Settings {
	return &Settings{
		Language:   DefaultLanguage,
		LogLevel:   DefaultLogLevel,
		DateFormat: DefaultDateFormat,
	}
}

// LoadSettings builds Settings by layering defaults, an optional YAML file and
// environment variables (low -> high precedence).
//
// The file is BDAY_CONFIG when set (it must exist), otherwise
// <UserConfigDir>/go-bday/config.yaml when present.
func LoadSettings() (*Settings, error) {
	base := DefaultSettings()
	k := koanf.New(".")

	path, required := settingsPath()
	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrLoadSettings, err)
			}
		case required:
			return nil, fmt.Errorf("%s: %w", ErrLoadSettings, statErr)
		}
	}

	// BDAY_DATA_FILE -> data_file, BDAY_LOG_LEVEL -> log_level, ...
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadSettings, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLoadSettings, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every setting holds a usable value.
func (s *Settings) Validate() error {
	tag, err := language.Parse(s.Language)
	if err != nil {
		return fmt.Errorf("%w: language %q: %v", ErrInvalidSettings, s.Language, err)
	}
	if base, _ := tag.Base(); !slices.Contains(SupportedLanguages, base.String()) {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidSettings, s.Language)
	}
	if _, ok := parseLevel(s.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, s.LogLevel)
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %v", ErrInvalidSettings, s.Timezone, err)
		}
	}
	if strings.TrimSpace(s.DateFormat) == "" {
		return fmt.Errorf("%w: date_format must not be empty", ErrInvalidSettings)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (s *Settings) SlogLevel() slog.Level {
	lvl, _ := parseLevel(s.LogLevel)
	return lvl
}

// Location resolves the default zone. An empty Timezone yields time.Local.
func (s *Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// AppConfigDir returns <UserConfigDir>/go-bday.
func AppConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppDirName), nil
}

func settingsPath() (path string, required bool) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, true
	}
	dir, err := AppConfigDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(dir, SettingsFile), false
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
