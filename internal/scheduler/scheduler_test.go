package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/surf-report/internal/surf"
)

type recordingRefresher struct {
	mu        sync.Mutex
	refreshed []string
	deadlines []bool
	failFor   string
}

func (r *recordingRefresher) FetchAndStore(ctx context.Context, loc surf.Location) error {
	_, hasDeadline := ctx.Deadline()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshed = append(r.refreshed, loc.ID)
	r.deadlines = append(r.deadlines, hasDeadline)
	if loc.ID == r.failFor {
		return errors.New("upstream down")
	}
	return nil
}

func (r *recordingRefresher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refreshed)
}

func locations(ids ...string) []surf.Location {
	out := make([]surf.Location, 0, len(ids))
	for _, id := range ids {
		out = append(out, surf.Location{ID: id})
	}
	return out
}

func TestRunOnceRefreshesEveryLocation(t *testing.T) {
	r := &recordingRefresher{failFor: "long-beach"}
	s := New(locations("smith-point", "long-beach", "montauk"), time.Hour, time.Second, r)

	s.RunOnce()

	assert.ElementsMatch(t, []string{"smith-point", "long-beach", "montauk"}, r.refreshed,
		"one failed location does not stop the others")
	for _, ok := range r.deadlines {
		assert.True(t, ok, "every refresh is bounded")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	r := &recordingRefresher{}
	s := New(locations("montauk"), time.Hour, time.Second, r)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStartWithoutLocations(t *testing.T) {
	r := &recordingRefresher{}
	s := New(nil, 0, 0, r)

	require.NoError(t, s.Start())
	s.Stop()

	assert.Equal(t, defaultInterval, s.interval)
	assert.Zero(t, r.count())
}
