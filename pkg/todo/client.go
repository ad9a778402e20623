package todo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "todoview"

// maxBodySize caps how much of a list response is read.
const maxBodySize = 4 << 20

// ClientConfig configures an HTTPClient.
type ClientConfig struct {
	// BaseURL is the remote root; the client calls <BaseURL>/todos and
	// <BaseURL>/toggle/{id}.
	BaseURL string

	// ToggleMethod is the HTTP verb used for toggles (default: GET, which
	// is what the reference backend accepts). New backends should use POST.
	ToggleMethod string

	// HTTPClient performs requests (default: a client with a 10s timeout).
	HTTPClient *http.Client

	// TracerName is the OpenTelemetry tracer name (default: "todoview").
	// The tracer comes from the global provider.
	TracerName string

	// Metrics records call counts and latency. Optional.
	Metrics *Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// HTTPClient is the Lister and Toggler backed by the remote HTTP API.
type HTTPClient struct {
	base         *url.URL
	toggleMethod string
	http         *http.Client
	tracer       trace.Tracer
	metrics      *Metrics
	logger       *slog.Logger
}

// NewHTTPClient validates config and creates a client.
func NewHTTPClient(config ClientConfig) (*HTTPClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("todo: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("todo: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("todo: base URL must be http or https, got %q", base.Scheme)
	}

	method := strings.ToUpper(config.ToggleMethod)
	switch method {
	case "":
		method = http.MethodGet
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, fmt.Errorf("todo: unsupported toggle method %q", config.ToggleMethod)
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &HTTPClient{
		base:         base,
		toggleMethod: method,
		http:         config.HTTPClient,
		tracer:       otel.Tracer(config.TracerName),
		metrics:      config.Metrics,
		logger:       config.Logger.With("component", "todo_client"),
	}, nil
}

// ToggleMethod returns the verb used for toggles.
func (c *HTTPClient) ToggleMethod() string {
	return c.toggleMethod
}

// List fetches and parses the record list. Transport failures and non-2xx
// responses return *FetchError, malformed payloads *ParseError.
func (c *HTTPClient) List(ctx context.Context) (records []Record, err error) {
	endpoint := c.base.String() + "/todos"

	ctx, span := c.tracer.Start(ctx, "todo.list",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", endpoint)),
	)
	start := time.Now()
	defer func() {
		c.metrics.observeRemote("list", time.Since(start).Seconds(), err)
		endSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Source: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Source: endpoint, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &FetchError{Source: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Source: endpoint, Err: err}
	}

	records, err = ParseRecords(body)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("todo.count", len(records)))
	c.logger.Debug("list fetched", "count", len(records))
	return records, nil
}

// Toggle asks the remote to flip one record. Up to maxBodySize of the
// response body is read and discarded.
func (c *HTTPClient) Toggle(ctx context.Context, id int64) (err error) {
	endpoint := c.base.String() + "/toggle/" + strconv.FormatInt(id, 10)

	ctx, span := c.tracer.Start(ctx, "todo.toggle",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("todo.id", id),
			attribute.String("http.method", c.toggleMethod),
		),
	)
	start := time.Now()
	defer func() {
		c.metrics.observeRemote("toggle", time.Since(start).Seconds(), err)
		endSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, c.toggleMethod, endpoint, nil)
	if err != nil {
		return &ToggleError{ID: id, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ToggleError{ID: id, Err: err}
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize)); err != nil {
		return &ToggleError{ID: id, Err: err}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ToggleError{ID: id, StatusCode: resp.StatusCode}
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
