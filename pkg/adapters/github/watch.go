package github

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/aretw0/lifecycle"

	"github.com/ga-ut/gh-db/pkg/core"
)

// Watch polls the collection selected by q and emits an event for every
// record that appears, changes or stops matching between two polls.
//
// The first poll runs before Watch returns and only establishes the baseline,
// so errors such as a bad token surface immediately. Later poll failures are
// reported through Config.ErrorHandler (or the logger) and polling goes on.
// Only the page selected by q is observed: records pushed off that page are
// reported as deleted.
func (r *Repository) Watch(ctx context.Context, q core.Query) (<-chan core.Event, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	seen, err := r.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	events := make(chan core.Event, 16)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		ticker := time.NewTicker(r.config.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			next, err := r.snapshot(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				r.reportWatchError(err)
				continue
			}
			for _, e := range diffSnapshots(seen, next, time.Now().Unix()) {
				select {
				case events <- e:
				case <-ctx.Done():
					return nil
				}
			}
			seen = next
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

// snapshot maps every decodable record of the page to its last update time.
func (r *Repository) snapshot(ctx context.Context, q core.Query) (map[int]time.Time, error) {
	issues, err := r.listIssues(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make(map[int]time.Time, len(issues))
	for _, is := range issues {
		if _, err := core.DecodeBody(is.Body, r.config.Strict); err != nil {
			continue
		}
		out[is.Number] = is.UpdatedAt
	}
	return out, nil
}

func (r *Repository) reportWatchError(err error) {
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
		return
	}
	r.logger.Error("watch poll failed", "error", err)
}

// diffSnapshots lists creations and modifications, then deletions, each in
// ascending id order.
func diffSnapshots(prev, next map[int]time.Time, now int64) []core.Event {
	var events []core.Event
	for _, id := range slices.Sorted(maps.Keys(next)) {
		before, ok := prev[id]
		switch {
		case !ok:
			events = append(events, core.Event{Type: core.EventCreate, ID: id, Timestamp: now})
		case !before.Equal(next[id]):
			events = append(events, core.Event{Type: core.EventModify, ID: id, Timestamp: now})
		}
	}
	for _, id := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := next[id]; !ok {
			events = append(events, core.Event{Type: core.EventDelete, ID: id, Timestamp: now})
		}
	}
	return events
}
