package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ga-ut/gh-db/pkg/adapters/github"
	"github.com/ga-ut/gh-db/pkg/core"
)

// Init builds and validates a repository from the provided configuration.
// The uri argument is adapter-specific ("owner/repo" for github).
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := applyOptions(opts)

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "github":
		repo, err = initGitHub(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// ParseURI splits "owner/repo" into its parts.
func ParseURI(uri string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.Trim(uri, "/"), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", uri)
	}
	return owner, repo, nil
}

func initGitHub(uri string, o *options) (core.Repository, error) {
	owner, name, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	token, _ := o.config["token"].(string)
	baseURL, _ := o.config["base_url"].(string)
	client, _ := o.config["http_client"].(*http.Client)
	strict, _ := o.config["strict"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	tracer, _ := o.config["tracer"].(trace.Tracer)
	meter, _ := o.config["meter"].(metric.Meter)
	interval, _ := o.config["poll_interval"].(time.Duration)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if o.logger != nil {
		o.logger.Debug("opening repository", "owner", owner, "repo", name, "authenticated", token != "", "read_only", readOnly)
	}

	return github.NewRepository(github.Config{
		Token:        token,
		Owner:        owner,
		Repo:         name,
		BaseURL:      baseURL,
		HTTPClient:   client,
		Logger:       o.logger,
		Strict:       strict,
		ReadOnly:     readOnly,
		Tracer:       tracer,
		Meter:        meter,
		PollInterval: interval,
		ErrorHandler: errorHandler,
	}), nil
}
