package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/todoview/internal/config"
	"github.com/vango-dev/todoview/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var jsonErrors bool

	rootCmd := &cobra.Command{
		Use:   "todoview",
		Short: "A reactive to-do list served over WebSocket",
		Long: `todoview keeps a to-do list in reactive view state on the server
and pushes every change to connected browsers.

  • serve    host the page against a remote list
  • backend  run the demo list API on SQLite
  • init     write a todoview.json with the defaults`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&jsonErrors, "json-errors", false, "Print errors as JSON")

	rootCmd.AddCommand(
		serveCmd(),
		backendCmd(),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err, jsonErrors)
		os.Exit(1)
	}
}

// reportError prints err for a human, or as JSON for scripts.
func reportError(w io.Writer, err error, asJSON bool) {
	if asJSON {
		errors.FprintJSON(w, err)
		return
	}
	errors.Fprint(w, err)
}

// loadConfig reads todoview.json from dir, or returns the defaults.
func loadConfig(dir string) (*config.Config, error) {
	if dir == "" {
		dir = "."
	}
	return config.LoadOrDefault(dir)
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
