package github

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ga-ut/gh-db/pkg/core"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultAPIVersion is the REST API version every request is pinned to.
	DefaultAPIVersion = "2022-11-28"
	// DefaultPollInterval is the Watch polling period.
	DefaultPollInterval = 30 * time.Second
)

// Config holds the configuration for the issue-tracker repository.
type Config struct {
	// Token is the bearer credential. Empty means anonymous access, in which
	// case no extra headers are sent at all.
	Token      string
	Owner      string
	Repo       string
	BaseURL    string // defaults to DefaultBaseURL
	APIVersion string // defaults to DefaultAPIVersion
	HTTPClient *http.Client
	Logger     *slog.Logger
	// Strict decodes numbers as json.Number to avoid float64 precision loss.
	Strict bool
	// ReadOnly rejects Create, Update and Delete with core.ErrReadOnly.
	ReadOnly     bool
	Tracer       trace.Tracer
	Meter        metric.Meter
	PollInterval time.Duration
	// ErrorHandler receives errors raised while polling in Watch.
	ErrorHandler func(error)
}

// Repository implements core.Repository on top of a GitHub-style issue
// tracker: a record is an issue whose title is the subject, whose labels are
// the subject plus tags, and whose body is the JSON payload.
//
// Everything is derived from Config in NewRepository and never changes
// afterwards, so a Repository may be shared between goroutines.
type Repository struct {
	config   Config
	endpoint string
	headers  http.Header
	client   *http.Client
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *instruments
}

// NewRepository creates a new issue-tracker backed repository.
func NewRepository(config Config) *Repository {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}

	r := &Repository{
		config: config,
		endpoint: fmt.Sprintf("%s/repos/%s/%s/issues",
			strings.TrimRight(config.BaseURL, "/"),
			url.PathEscape(config.Owner),
			url.PathEscape(config.Repo),
		),
		client: config.HTTPClient,
		logger: config.Logger,
	}
	if r.client == nil {
		r.client = http.DefaultClient
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if config.Token != "" {
		r.headers = http.Header{
			"Accept":               {"application/vnd.github+json"},
			"Authorization":        {"Bearer " + config.Token},
			"X-Github-Api-Version": {config.APIVersion},
		}
	}
	r.tracer = tracerOrNoop(config.Tracer)
	r.metrics = newInstruments(config.Meter, r.logger)
	return r
}

// Initialize validates the configuration. It performs no network calls.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.Owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if r.config.Repo == "" {
		return fmt.Errorf("repo cannot be empty")
	}
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base url: unsupported scheme %q", u.Scheme)
	}
	return nil
}

// Endpoint returns the issues collection URL all requests are made against.
func (r *Repository) Endpoint() string {
	return r.endpoint
}

// Create persists a new record.
//
// Workflow:
//  1. POST the issue (title = subject, labels = subject + tags, body = payload).
//  2. Unless the record is editable, PUT the lock on the returned number.
//
// The two steps are not atomic. If the lock fails the issue stays created and
// unlocked; the returned Record carries its ID together with the lock error.
func (r *Repository) Create(ctx context.Context, in core.CreateInput) (core.Record, error) {
	if r.config.ReadOnly {
		return core.Record{}, core.ErrReadOnly
	}
	body, err := core.EncodeBody(in.Data)
	if err != nil {
		return core.Record{}, err
	}

	raw, err := r.do(ctx, core.PhaseCreate, http.MethodPost, r.endpoint, createRequest{
		Title:  in.Subject,
		Labels: in.Labels(),
		Body:   body,
	})
	if err != nil {
		return core.Record{}, err
	}

	var created issue
	if err := json.Unmarshal(raw, &created); err != nil || created.Number <= 0 {
		if err == nil {
			err = fmt.Errorf("response has no issue number")
		}
		return core.Record{}, &core.DecodeError{Err: err}
	}
	rec := core.Record{ID: created.Number, Data: in.Data}

	if !in.Editable {
		if _, err := r.do(ctx, core.PhaseLock, http.MethodPut, r.issueURL(rec.ID)+"/lock", nil); err != nil {
			return rec, err
		}
	}
	return rec, nil
}

// Get retrieves a record by its ID. A body that cannot be decoded is an error.
func (r *Repository) Get(ctx context.Context, id int) (core.Record, error) {
	raw, err := r.do(ctx, core.PhaseGet, http.MethodGet, r.issueURL(id), nil)
	if err != nil {
		return core.Record{}, err
	}
	return r.decodeResponse(id, raw)
}

// List returns one page of a collection, in the order the tracker reports.
// Issues whose body is not a valid payload are dropped without error.
func (r *Repository) List(ctx context.Context, q core.Query) ([]core.Record, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	issues, err := r.listIssues(ctx, q)
	if err != nil {
		return nil, err
	}

	dropped := 0
	recs := slices.Collect(r.decodeAll(issues, func(is issue, err error) {
		dropped++
		r.logger.Debug("skipping undecodable record", "id", is.Number, "error", err)
	}))
	if dropped > 0 {
		r.metrics.recordDropped(ctx, dropped)
	}
	if recs == nil {
		recs = []core.Record{}
	}
	return recs, nil
}

// Update replaces the payload of a record. The returned Record is decoded
// from the tracker's response, not echoed from data.
func (r *Repository) Update(ctx context.Context, id int, data core.Data) (core.Record, error) {
	if r.config.ReadOnly {
		return core.Record{}, core.ErrReadOnly
	}
	body, err := core.EncodeBody(data)
	if err != nil {
		return core.Record{}, err
	}
	raw, err := r.do(ctx, core.PhaseUpdate, http.MethodPatch, r.issueURL(id), updateRequest{Body: body})
	if err != nil {
		return core.Record{}, err
	}
	return r.decodeResponse(id, raw)
}

// Delete soft-deletes a record: the issue is closed, its title replaced by
// its own number and its body and labels cleared. It cannot be undone here.
func (r *Repository) Delete(ctx context.Context, id int) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	_, err := r.do(ctx, core.PhaseDelete, http.MethodPatch, r.issueURL(id), deleteRequest{
		Title:  strconv.Itoa(id),
		Body:   "",
		State:  "closed",
		Labels: []string{},
	})
	return err
}

func (r *Repository) issueURL(id int) string {
	return r.endpoint + "/" + strconv.Itoa(id)
}

func (r *Repository) listURL(q core.Query) string {
	v := url.Values{}
	v.Set("title", q.Subject)
	if len(q.Tags) > 0 {
		v.Set("labels", strings.Join(q.Tags, ","))
	}
	v.Set("per_page", strconv.Itoa(q.PerPage))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("sort", q.Sort)
	v.Set("direction", q.Direction)
	v.Set("creator", r.config.Owner)
	return r.endpoint + "?" + v.Encode()
}

func (r *Repository) listIssues(ctx context.Context, q core.Query) ([]issue, error) {
	raw, err := r.do(ctx, core.PhaseList, http.MethodGet, r.listURL(q), nil)
	if err != nil {
		return nil, err
	}
	var issues []issue
	if err := json.Unmarshal(raw, &issues); err != nil {
		return nil, &core.DecodeError{Err: fmt.Errorf("list response: %w", err)}
	}
	return issues, nil
}

// decodeAll lazily decodes issues, handing every failure to skip.
func (r *Repository) decodeAll(issues []issue, skip func(issue, error)) iter.Seq[core.Record] {
	return func(yield func(core.Record) bool) {
		for _, is := range issues {
			data, err := core.DecodeBody(is.Body, r.config.Strict)
			if err != nil {
				skip(is, err)
				continue
			}
			if !yield(core.Record{ID: is.Number, Data: data}) {
				return
			}
		}
	}
}

func (r *Repository) decodeResponse(id int, raw []byte) (core.Record, error) {
	var is issue
	if err := json.Unmarshal(raw, &is); err != nil {
		return core.Record{}, &core.DecodeError{ID: id, Err: err}
	}
	data, err := core.DecodeBody(is.Body, r.config.Strict)
	if err != nil {
		return core.Record{}, &core.DecodeError{ID: id, Err: err}
	}
	return core.Record{ID: id, Data: data}, nil
}
