package platform

import (
	"github.com/ga-ut/gh-db/pkg/core"
)

// New creates the domain service for the tracker at uri.
//
//	svc, err := ghdb.New("octo/records", ghdb.WithToken(token))
//
// The uri argument is adapter-specific ("owner/repo" for github).
func New(uri string, opts ...Option) (*core.Service, error) {
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	// Options are parsed again to get the logger for wiring.
	o := applyOptions(opts)
	return core.NewService(repo, o.logger), nil
}
