package ghdb

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ga-ut/gh-db/internal/platform"
	"github.com/ga-ut/gh-db/pkg/core"
	"github.com/ga-ut/gh-db/pkg/typed"
)

// --- Types ---

// Data is the record payload.
type Data = core.Data

// Record is a stored record.
type Record = core.Record

// CreateInput describes a record to create.
type CreateInput = core.CreateInput

// Query selects one page of a collection.
type Query = core.Query

// Event is a change notification emitted by Watch.
type Event = core.Event

// DocumentModel is a public alias for the typed document model.
type DocumentModel[T any] = typed.DocumentModel[T]

// TypedRepository is a public alias for the typed repository.
type TypedRepository[T any] = typed.Repository[T]

// TypedService is a public alias for the typed service.
type TypedService[T any] = typed.Service[T]

// --- Configuration ---

// Option defines a functional option for configuring gh-db.
type Option = platform.Option

// WithToken sets the bearer token. Without it requests are anonymous.
func WithToken(token string) Option {
	return platform.WithToken(token)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithBaseURL points the adapter at another API host.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithHTTPClient injects the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return platform.WithHTTPClient(client)
}

// WithStrict decodes numbers as json.Number.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithTracer sets the OpenTelemetry tracer.
func WithTracer(tracer trace.Tracer) Option {
	return platform.WithTracer(tracer)
}

// WithMeter sets the OpenTelemetry meter.
func WithMeter(meter metric.Meter) Option {
	return platform.WithMeter(meter)
}

// WithPollInterval sets how often Watch polls the tracker.
func WithPollInterval(d time.Duration) Option {
	return platform.WithPollInterval(d)
}

// WithWatcherErrorHandler registers a callback for failed Watch polls.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a gh-db Service for "owner/repo".
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Init initializes a repository explicitly.
func Init(uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(uri, opts...)
}

// --- Typed Factories ---

// NewTypedRepository creates a type-safe wrapper around an existing repository.
func NewTypedRepository[T any](repo core.Repository) *typed.Repository[T] {
	return typed.NewRepository[T](repo)
}

// NewTypedService creates a type-safe wrapper around an existing service.
func NewTypedService[T any](svc *core.Service) *typed.Service[T] {
	return typed.NewService[T](svc)
}

// OpenTypedRepository simplifies creating a TypedRepository from "owner/repo".
func OpenTypedRepository[T any](uri string, opts ...Option) (*typed.Repository[T], error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewRepository[T](repo), nil
}

// OpenTypedService simplifies creating a TypedService from "owner/repo".
func OpenTypedService[T any](uri string, opts ...Option) (*typed.Service[T], error) {
	svc, err := New(uri, opts...)
	if err != nil {
		return nil, err
	}
	return typed.NewService[T](svc), nil
}

// --- Utils ---

// FindConfig looks upwards from startDir for a .ghdb.yaml file.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}
