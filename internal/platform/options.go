package platform

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ga-ut/gh-db/pkg/core"
)

// options holds the internal configuration for the gh-db service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	config     map[string]any
}

// Option defines a functional option for configuring gh-db.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		repository: nil,
		logger:     nil,
		adapter:    "github",
		config:     make(map[string]any),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithToken sets the bearer token. Without it requests are anonymous.
func WithToken(token string) Option {
	return func(o *options) {
		o.config["token"] = token
	}
}

// WithBaseURL points the adapter at another API host (e.g. GitHub Enterprise).
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.config["base_url"] = url
	}
}

// WithHTTPClient injects the client used for every request. Timeouts and
// proxies are configured on it.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.config["http_client"] = client
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default issue-tracker adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter allows specifying the storage adapter to use by name.
// Defaults to "github".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStrict enables strict mode.
// When enabled, numbers in record bodies are parsed as json.Number
// to preserve precision of large integers.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithReadOnly enables read-only mode.
// Create, Update and Delete return ErrReadOnly without touching the tracker.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithTracer sets the OpenTelemetry tracer used for request spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.config["tracer"] = tracer
	}
}

// WithMeter sets the OpenTelemetry meter used for request metrics.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		o.config["meter"] = meter
	}
}

// WithPollInterval sets how often Watch polls the tracker.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.config["poll_interval"] = d
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
// Failed polls are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
