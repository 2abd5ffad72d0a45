package github_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga-ut/gh-db/pkg/adapters/github"
	"github.com/ga-ut/gh-db/pkg/core"
)

func TestWatch(t *testing.T) {
	var (
		mu       sync.Mutex
		pollErrs []error
	)
	repo, tracker := setupRepo(t, func(c *github.Config) {
		c.PollInterval = 10 * time.Millisecond
		c.ErrorHandler = func(err error) {
			mu.Lock()
			defer mu.Unlock()
			pollErrs = append(pollErrs, err)
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	touched := tracker.Put("jobs", `{"state":"queued"}`, "jobs")
	removed := tracker.Put("jobs", `{"state":"queued"}`, "jobs")

	events, err := repo.Watch(ctx, core.Query{Subject: "jobs"})
	require.NoError(t, err)

	tracker.Fail("list", http.StatusBadGateway)
	tracker.Touch(touched, `{"state":"running"}`)
	added := tracker.Put("jobs", `{"state":"queued"}`, "jobs")
	require.NoError(t, repo.Delete(ctx, removed))

	got := map[core.EventType]int{}
	timeout := time.After(3 * time.Second)
	for len(got) < 3 {
		select {
		case e := <-events:
			got[e.Type] = e.ID
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", got)
		}
	}
	assert.Equal(t, map[core.EventType]int{
		core.EventModify: touched,
		core.EventCreate: added,
		core.EventDelete: removed,
	}, got)

	mu.Lock()
	assert.NotEmpty(t, pollErrs, "failed poll should reach the error handler")
	mu.Unlock()

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestWatch_BaselineErrorSurfaces(t *testing.T) {
	repo, tracker := setupRepo(t)
	tracker.Fail("list", http.StatusUnauthorized)

	_, err := repo.Watch(context.Background(), core.Query{Subject: "jobs"})
	assert.ErrorIs(t, err, core.ErrForbidden)
}
