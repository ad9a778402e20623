package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/todoview/internal/config"
	"github.com/vango-dev/todoview/internal/errors"
	"github.com/vango-dev/todoview/internal/host"
	"github.com/vango-dev/todoview/pkg/reactive"
	"github.com/vango-dev/todoview/pkg/todo"
)

type serveOptions struct {
	dir         string
	host        string
	port        int
	remote      string
	autoRefresh time.Duration
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the to-do page",
		Long: `Serve the to-do page.

The list is fetched from the configured remote (or S3 object) and kept
in reactive view state. Browsers connect over WebSocket and receive a
fresh render after every change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing todoview.json")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.remote, "remote", "r", "", "Base URL of the to-do API")
	cmd.Flags().DurationVar(&opts.autoRefresh, "auto-refresh", 0, "Re-fetch the list on this interval")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := loadConfig(opts.dir)
	if err != nil {
		return err
	}
	if err := applyServeFlags(cfg, opts); err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := todo.NewMetrics(todo.MetricsConfig{Registry: reg})

	lister, toggler, err := buildRemotes(cfg, metrics, logger)
	if err != nil {
		return err
	}

	// The loop outlives ctx so the page can unmount and dispose on it.
	loop := reactive.NewLoop(&reactive.LoopConfig{Logger: logger})
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go loop.Run(loopCtx)

	page, err := todo.NewPage(loop, todo.PageConfig{
		Lister:  lister,
		Toggler: toggler,
		Policy:  cfg.TogglePolicy(),
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return errors.New("T180").Wrap(err)
	}
	defer func() {
		if err := page.Dispose(); err != nil {
			logger.Warn("page dispose", "error", err)
		}
	}()

	srv, err := host.New(ctx, page, host.Config{
		AutoRefresh: cfg.AutoRefreshInterval(),
		Registry:    reg,
		Logger:      logger,
	})
	if err != nil {
		return errors.New("T180").Wrap(err)
	}

	addr := cfg.ServeAddress()
	success("Serving on http://%s", addr)
	info("List source: %s", describeSource(cfg))
	if d := cfg.AutoRefreshInterval(); d > 0 {
		info("Auto refresh every %s", d)
	}

	if err := srv.ListenAndServe(ctx, addr); err != nil && err != http.ErrServerClosed {
		return errors.New("T140").WithDetailf("Could not serve on %s", addr).Wrap(err)
	}
	return nil
}

// applyServeFlags overrides cfg with flags that were set and re-validates.
func applyServeFlags(cfg *config.Config, opts serveOptions) error {
	if opts.port < 0 || opts.port > 65535 {
		return errors.New("T141").WithDetailf("--port %d is out of range", opts.port)
	}
	if opts.autoRefresh < 0 {
		return errors.New("T141").WithDetailf("--auto-refresh %s is negative", opts.autoRefresh)
	}
	if opts.host != "" {
		cfg.Serve.Host = opts.host
	}
	if opts.port != 0 {
		cfg.Serve.Port = opts.port
	}
	if opts.remote != "" {
		cfg.Remote.BaseURL = opts.remote
	}
	if opts.autoRefresh > 0 {
		cfg.Serve.AutoRefresh = opts.autoRefresh.String()
	}
	return cfg.Validate()
}

// buildRemotes picks the Lister named by the source section. Toggles always
// go to the HTTP remote.
func buildRemotes(cfg *config.Config, metrics *todo.Metrics, logger *slog.Logger) (todo.Lister, todo.Toggler, error) {
	client, err := todo.NewHTTPClient(todo.ClientConfig{
		BaseURL:      cfg.Remote.BaseURL,
		ToggleMethod: cfg.Remote.ToggleMethod,
		HTTPClient:   &http.Client{Timeout: cfg.RemoteTimeout()},
		Metrics:      metrics,
		Logger:       logger,
	})
	if err != nil {
		return nil, nil, errors.New("T142").Wrap(err)
	}

	if cfg.Source.Kind != config.SourceS3 {
		return client, client, nil
	}

	lister, err := todo.NewS3Lister(todo.S3Config{
		Bucket:   cfg.Source.S3.Bucket,
		Key:      cfg.Source.S3.Key,
		Region:   cfg.Source.S3.Region,
		Endpoint: cfg.Source.S3.Endpoint,
	}, metrics, logger)
	if err != nil {
		return nil, nil, errors.New("T142").Wrap(err)
	}
	return lister, client, nil
}

func describeSource(cfg *config.Config) string {
	if cfg.Source.Kind == config.SourceS3 {
		return "s3://" + cfg.Source.S3.Bucket + "/" + cfg.Source.S3.Key
	}
	return cfg.Remote.BaseURL
}
