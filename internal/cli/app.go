// Package cli wires the engine, the data file and the renderers into the
// bday command tree.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
	"github.com/tartampluch/go-bday/internal/locale"
	"github.com/tartampluch/go-bday/internal/store"
)

// App holds the collaborators shared by every command.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clock provides the reference instant when --now is not given.
	Clock engine.Clock

	Settings *config.Settings

	// DataFile and Lang are the global --file and --lang overrides.
	DataFile string
	Lang     string

	tr *locale.Translator
}

// New returns an App on the process streams and the real clock.
func New(settings *config.Settings) *App {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &App{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Clock:    engine.RealClock{},
		Settings: settings,
	}
}

// Execute runs the command line args (without the program name and global flags).
func (a *App) Execute(ctx context.Context, args []string) error {
	return a.Root().Execute(ctx, args)
}

// Root builds the command tree.
func (a *App) Root() *Command {
	return &Command{
		Name:    config.AppName,
		Summary: "Keep track of birthdays and see who is next.",
		Output:  a.Stderr,
		Subcommands: []*Command{
			a.addCommand(),
			a.listCommand(),
			a.editCommand(),
			a.removeCommand(),
			a.importCommand(),
			a.exportCommand(),
		},
	}
}

func (a *App) translator() *locale.Translator {
	if a.tr == nil {
		lang := a.Lang
		if lang == "" {
			lang = a.Settings.Language
		}
		a.tr = locale.New(lang)
	}
	return a.tr
}

// location is the default zone: entries without one are evaluated there.
func (a *App) location() *time.Location {
	return a.Settings.Location()
}

func (a *App) now() time.Time {
	return a.Clock.Now().In(a.location())
}

func (a *App) openStore() (*store.Store, error) {
	explicit := a.DataFile
	if explicit == "" {
		explicit = a.Settings.DataFile
	}
	path, err := store.Locate(explicit)
	if err != nil {
		return nil, dataError(err)
	}

	s, err := store.Load(path)
	if err != nil {
		return nil, dataError(err)
	}
	return s, nil
}

func (a *App) save(s *store.Store) error {
	if err := s.Save(); err != nil {
		return dataError(err)
	}
	return nil
}

func (a *App) logger(command string) *slog.Logger {
	return slog.With(config.LogKeyComponent, config.CompCLI, config.LogKeyCommand, command)
}
