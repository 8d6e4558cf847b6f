package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/tartampluch/go-bday/internal/cli"
	"github.com/tartampluch/go-bday/internal/config"

	// Entries carry IANA zone names; embed the database for hosts without one.
	_ "time/tzdata"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain(args []string) int {
	// -------------------------------------------------------------------------
	// 1. Global Flags
	// -------------------------------------------------------------------------
	flags := pflag.NewFlagSet(config.AppName, pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(io.Discard)
	showVersion := flags.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flags.Bool(config.FlagDebug, false, config.FlagDescDebug)
	dataFile := flags.StringP(config.FlagFile, "f", "", config.FlagDescFile)
	lang := flags.String(config.FlagLang, "", config.FlagDescLang)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Global flags:\n%s\n", flags.FlagUsages())
			return runApp(context.Background(), nil, []string{"--help"})
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return config.ExitCodeUsage
	}

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Settings
	// -------------------------------------------------------------------------
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return config.ExitCodeError
	}

	// -------------------------------------------------------------------------
	// 3. Logging Initialization
	// -------------------------------------------------------------------------
	level := settings.SlogLevel()
	if *debugMode {
		level = slog.LevelDebug
	}
	logCloser := setupLogging(level, *debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}
	logStartupInfo()
	slog.Debug(config.MsgSettings,
		config.LogKeyComponent, config.CompConfig,
		config.LogKeyValue, *settings)

	// -------------------------------------------------------------------------
	// 4. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := cli.New(settings)
	app.DataFile = *dataFile
	app.Lang = *lang
	return runApp(ctx, app, flags.Args())
}

// runApp executes the command tree and turns its error into an exit code.
func runApp(ctx context.Context, app *cli.App, args []string) int {
	if app == nil {
		app = cli.New(nil)
	}

	err := app.Execute(ctx, args)
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		return cli.ExitCode(err)
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
