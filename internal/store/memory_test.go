package store

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/surf-report/internal/surf"
)

func reportAt(id string, ts time.Time, rating int) surf.SurfReport {
	return surf.SurfReport{
		Location:  surf.Location{ID: id},
		Timestamp: ts,
		Rating:    rating,
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStoreWithClock(time.Hour, clock)

	_, err := s.GetLatest("montauk")
	assert.ErrorIs(t, err, ErrNotFound)

	s.SaveReport(reportAt("montauk", clock.Now(), 6))
	got, err := s.GetLatest("montauk")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Rating)

	clock.Advance(10 * time.Minute)
	s.SaveReport(reportAt("montauk", clock.Now(), 8))
	got, err = s.GetLatest("montauk")
	require.NoError(t, err)
	assert.Equal(t, 8, got.Rating, "latest report replaces the previous one")
}

func TestMemoryStore_OlderReportDoesNotOverwrite(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStoreWithClock(0, clock)

	s.SaveReport(reportAt("long-beach", clock.Now(), 9))
	s.SaveReport(reportAt("long-beach", clock.Now().Add(-time.Minute), 2))

	got, err := s.GetLatest("long-beach")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Rating)
}

func TestMemoryStore_Expiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStoreWithClock(30*time.Minute, clock)

	s.SaveReport(reportAt("brick-nj", clock.Now(), 5))

	clock.Advance(30 * time.Minute)
	_, err := s.GetLatest("brick-nj")
	assert.NoError(t, err)

	clock.Advance(time.Second)
	_, err = s.GetLatest("brick-nj")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_NoExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewMemoryStoreWithClock(0, clock)

	s.SaveReport(reportAt("brick-nj", clock.Now(), 5))
	clock.Advance(24 * 365 * time.Hour)

	_, err := s.GetLatest("brick-nj")
	assert.NoError(t, err)
}

func TestMemoryStore_Locations(t *testing.T) {
	s := NewMemoryStore(0)
	now := time.Now()

	s.SaveReport(reportAt("montauk", now, 5))
	s.SaveReport(reportAt("smith-point", now, 5))
	s.SaveReport(reportAt("montauk", now.Add(time.Second), 6))

	assert.ElementsMatch(t, []string{"montauk", "smith-point"}, s.Locations())
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SaveReport(reportAt("montauk", now.Add(time.Duration(i)*time.Millisecond), i))
		}()
		go func() {
			defer wg.Done()
			_, _ = s.GetLatest("montauk")
		}()
	}
	wg.Wait()

	got, err := s.GetLatest("montauk")
	require.NoError(t, err)
	assert.Equal(t, 49, got.Rating, "newest timestamp wins regardless of write order")
}
