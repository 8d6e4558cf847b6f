package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-bday/internal/config"
)

// Candidates lists the data file locations, in search order:
//   - ./birthdays.toml
//   - <UserConfigDir>/go-bday/birthdays.toml ($XDG_CONFIG_HOME on Linux)
//   - $HOME/.config/go-bday/birthdays.toml
//   - $HOME/.birthdays.toml
func Candidates() []string {
	paths := []string{filepath.Join(".", config.DataFileName)}

	if dir, err := config.AppConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, config.DataFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", config.AppDirName, config.DataFileName),
			filepath.Join(home, "."+config.DataFileName),
		)
	}
	return paths
}

// Locate resolves the data file path. An explicit path always wins. Otherwise
// the first existing candidate is used, and when none exists the config dir
// location is returned so that the first "add" creates it there.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, p := range Candidates() {
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", config.ErrReadStore, err)
		}
	}

	dir, err := config.AppConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.DataFileName), nil
}
