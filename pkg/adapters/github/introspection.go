package github

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Endpoint      string `json:"endpoint"`
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	APIVersion    string `json:"api_version"`
	Authenticated bool   `json:"authenticated"`
	ReadOnly      bool   `json:"read_only"`
	Strict        bool   `json:"strict"`
	PollInterval  string `json:"poll_interval"`
}

// State implements introspection.Introspectable.
// The token itself is never exposed.
func (r *Repository) State() any {
	return RepositoryState{
		Endpoint:      r.endpoint,
		Owner:         r.config.Owner,
		Repo:          r.config.Repo,
		APIVersion:    r.config.APIVersion,
		Authenticated: r.headers != nil,
		ReadOnly:      r.config.ReadOnly,
		Strict:        r.config.Strict,
		PollInterval:  r.config.PollInterval.String(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "github"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
