package platform_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga-ut/gh-db/internal/platform"
	"github.com/ga-ut/gh-db/internal/testutil"
	"github.com/ga-ut/gh-db/pkg/adapters/github"
	"github.com/ga-ut/gh-db/pkg/core"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		owner   string
		repo    string
		wantErr bool
	}{
		{uri: "octo/records", owner: "octo", repo: "records"},
		{uri: "/octo/records/", owner: "octo", repo: "records"},
		{uri: "octo", wantErr: true},
		{uri: "octo/", wantErr: true},
		{uri: "a/b/c", wantErr: true},
		{uri: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			owner, repo, err := platform.ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestInit(t *testing.T) {
	t.Run("Builds the github adapter", func(t *testing.T) {
		repo, err := platform.Init("octo/records",
			platform.WithToken("t"),
			platform.WithReadOnly(true),
			platform.WithPollInterval(time.Minute),
		)
		require.NoError(t, err)

		gh, ok := repo.(*github.Repository)
		require.True(t, ok)
		state := gh.State().(github.RepositoryState)
		assert.True(t, state.Authenticated)
		assert.True(t, state.ReadOnly)
		assert.Equal(t, time.Minute.String(), state.PollInterval)
		assert.Equal(t, "https://api.github.com/repos/octo/records/issues", gh.Endpoint())
	})

	t.Run("Unknown adapter", func(t *testing.T) {
		_, err := platform.Init("octo/records", platform.WithAdapter("gitlab"))
		assert.ErrorContains(t, err, "unknown adapter")
	})

	t.Run("Invalid uri", func(t *testing.T) {
		_, err := platform.Init("octo")
		assert.Error(t, err)
	})

	t.Run("Injected repository wins", func(t *testing.T) {
		injected := github.NewRepository(github.Config{Owner: "x", Repo: "y"})
		repo, err := platform.Init("ignored", platform.WithRepository(injected))
		require.NoError(t, err)
		assert.Same(t, injected, repo)
	})
}

func TestNew_EndToEnd(t *testing.T) {
	tracker := testutil.NewTracker(t, "octo", "records")
	tracker.RequireToken = true

	svc, err := platform.New("octo/records",
		platform.WithToken("t"),
		platform.WithBaseURL(tracker.URL()),
		platform.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}),
		platform.WithLogger(slog.New(slog.DiscardHandler)),
		platform.WithStrict(true),
		platform.WithWatcherErrorHandler(func(err error) { t.Errorf("unexpected watch error: %v", err) }),
	)
	require.NoError(t, err)

	ctx := context.Background()
	rec, err := svc.CreateRecord(ctx, core.CreateInput{Subject: "orders", Data: core.Data{"total": 12}})
	require.NoError(t, err)

	got, err := svc.GetRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Data{"total": json.Number("12")}, got.Data)
}

func TestNew_ReadOnly(t *testing.T) {
	tracker := testutil.NewTracker(t, "octo", "records")
	svc, err := platform.New("octo/records", platform.WithBaseURL(tracker.URL()), platform.WithReadOnly(true))
	require.NoError(t, err)

	_, err = svc.CreateRecord(context.Background(), core.CreateInput{Subject: "s", Data: core.Data{}})
	assert.True(t, errors.Is(err, core.ErrReadOnly))
	assert.Empty(t, tracker.Requests())
}
