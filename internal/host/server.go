package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/todoview/pkg/todo"
)

// Config configures a Server.
type Config struct {
	// Title is the document title (default: "todoview").
	Title string

	// AutoRefresh re-fetches the list on this interval. Zero disables it.
	AutoRefresh time.Duration

	// SendBuffer is the per-client outbound queue length (default: 16).
	SendBuffer int

	// WriteTimeout bounds a single websocket write (default: 10s).
	WriteTimeout time.Duration

	// PingInterval is how often clients are pinged (default: 30s).
	PingInterval time.Duration

	// ReadTimeout is how long a client may stay silent, pongs included
	// (default: 60s).
	ReadTimeout time.Duration

	// Registry receives the host's collectors and backs /metrics
	// (default: a fresh registry).
	Registry *prometheus.Registry

	// Namespace is the metrics namespace (default: "todoview").
	Namespace string

	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Title:        "todoview",
		SendBuffer:   16,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
		ReadTimeout:  60 * time.Second,
		Namespace:    "todoview",
	}
}

// Server hosts one page.
type Server struct {
	config   Config
	page     *todo.Page
	hub      *Hub
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *hostMetrics
	logger   *slog.Logger

	unmount func()
}

// New mounts page into a new hub and builds the routes.
func New(ctx context.Context, page *todo.Page, config Config) (*Server, error) {
	defaults := DefaultConfig()
	if config.Title == "" {
		config.Title = defaults.Title
	}
	if config.SendBuffer <= 0 {
		config.SendBuffer = defaults.SendBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaults.PingInterval
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &Server{
		config:  config,
		page:    page,
		metrics: newHostMetrics(config.Registry, config.Namespace),
		logger:  config.Logger.With("component", "host"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.hub = NewHub(config.Logger)
	s.hub.metrics = s.metrics

	unmount, err := todo.Mount(ctx, s.hub, page)
	if err != nil {
		return nil, fmt.Errorf("mount page: %w", err)
	}
	s.unmount = unmount

	if config.AutoRefresh > 0 {
		go s.autoRefresh(ctx, config.AutoRefresh)
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/toggle/{id}", s.handleToggle)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/ws", s.handleWS)
	r.Handle("/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the mount point.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Close unmounts the page and disconnects every client.
func (s *Server) Close() {
	s.unmount()
	s.hub.closeAll()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	body, _ := s.hub.Document()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writeDocument(w, s.pageTitle(s.hub.Headline()), s.config.Title, body); err != nil {
		s.logger.Debug("write document failed", "error", err)
	}
}

// pageTitle prefixes the configured title with the live headline.
func (s *Server) pageTitle(headline string) string {
	if headline == "" {
		return s.config.Title
	}
	return headline + " · " + s.config.Title
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	err = s.toggle(r.Context(), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, todo.ErrUnknownItem):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, todo.ErrToggleInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.logger.Error("toggle failed", "id", id, "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.refresh(); err != nil {
		s.logger.Error("refresh failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	c := newClient(uuid.NewString(), conn, s.config.SendBuffer)
	s.hub.register(c)

	go c.writeLoop(s.config.WriteTimeout, s.config.PingInterval)
	go func() {
		defer s.hub.unregister(c)
		c.readLoop(context.Background(), s.config.ReadTimeout, s.handleMessage, func(err error) {
			s.logger.Warn("websocket read error", "client_id", c.id, "error", err)
		})
	}()
}

func (s *Server) handleMessage(ctx context.Context, msg Message) error {
	switch msg.Type {
	case "toggle":
		return s.toggle(ctx, msg.ID)
	case "refresh":
		return s.refresh()
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (s *Server) toggle(ctx context.Context, id int64) error {
	err := s.page.Toggle(ctx, id)
	s.metrics.gesture("toggle", err)
	return err
}

func (s *Server) refresh() error {
	err := s.page.Refresh()
	s.metrics.gesture("refresh", err)
	return err
}

func (s *Server) autoRefresh(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.page.Refresh(); err != nil {
				s.logger.Debug("auto refresh stopped", "error", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
