package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/todoview/internal/backend"
	tverrors "github.com/vango-dev/todoview/internal/errors"
)

type backendOptions struct {
	dir      string
	host     string
	port     int
	database string
	noSeed   bool
}

func backendCmd() *cobra.Command {
	var opts backendOptions

	cmd := &cobra.Command{
		Use:   "backend",
		Short: "Run the demo to-do API",
		Long: `Run the demo to-do API on a SQLite database.

It serves GET /todos and GET|POST /toggle/{id}, the same surface the
serve command consumes. An empty database is seeded with a sample list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackend(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing todoview.json")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.database, "db", "d", "", "SQLite database path")
	cmd.Flags().BoolVar(&opts.noSeed, "no-seed", false, "Do not seed an empty database")

	return cmd
}

func runBackend(ctx context.Context, opts backendOptions) error {
	cfg, err := loadConfig(opts.dir)
	if err != nil {
		return err
	}
	if opts.port < 0 || opts.port > 65535 {
		return tverrors.New("T141").WithDetailf("--port %d is out of range", opts.port)
	}
	if opts.host != "" {
		cfg.Backend.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Backend.Port = opts.port
	}
	if opts.database != "" {
		cfg.Backend.Database = opts.database
	}

	logger := newLogger(cfg).With("component", "backend")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(cfg.Backend.Database)
	if err != nil {
		return tverrors.New("T160").WithFile(cfg.Backend.Database).Wrap(err)
	}
	defer store.Close()

	if cfg.SeedBackend() && !opts.noSeed {
		seeded, err := store.Seed(ctx, backend.SeedRecords)
		if err != nil {
			return tverrors.New("T161").WithFile(cfg.Backend.Database).Wrap(err)
		}
		if seeded {
			info("Seeded %s with the sample list", cfg.Backend.Database)
		}
	}

	addr := cfg.BackendAddress()
	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Router(store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	success("Backend on http://%s (database %s)", addr, cfg.Backend.Database)

	select {
	case err := <-errCh:
		return tverrors.New("T140").WithDetailf("Could not serve on %s", addr).Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		warn("Shutdown: %v", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return tverrors.New("T140").Wrap(err)
	}
	return nil
}
