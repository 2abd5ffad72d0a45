package github

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ga-ut/gh-db/pkg/core"
)

func TestDiffSnapshots(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prev := map[int]time.Time{1: t0, 2: t0, 3: t0}
	next := map[int]time.Time{1: t0, 2: t0.Add(time.Second), 4: t0}

	got := diffSnapshots(prev, next, 100)
	assert.Equal(t, []core.Event{
		{Type: core.EventModify, ID: 2, Timestamp: 100},
		{Type: core.EventCreate, ID: 4, Timestamp: 100},
		{Type: core.EventDelete, ID: 3, Timestamp: 100},
	}, got)

	assert.Empty(t, diffSnapshots(next, next, 100))
}
