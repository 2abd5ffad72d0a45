// Package lifecycle exposes gh-db change events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/ga-ut/gh-db/pkg/core"
)

type recordSource struct {
	events <-chan core.Event
	types  []core.EventType
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the events of a watched
// collection (see core.Watchable). When types are given only those event
// types are forwarded. Events without a record id are never forwarded.
func NewSource(events <-chan core.Event, types ...core.EventType) lifecycle.Source {
	return &recordSource{
		events: events,
		types:  types,
		out:    make(chan lifecycle.Event),
	}
}

func (s *recordSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *recordSource) accepts(e core.Event) bool {
	if e.ID <= 0 {
		return false
	}
	return len(s.types) == 0 || slices.Contains(s.types, e.Type)
}

func (s *recordSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e core.Event
			select {
			case <-ctx.Done():
				return nil
			case next, ok := <-s.events:
				if !ok {
					return nil
				}
				e = next
			}
			if !s.accepts(e) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
