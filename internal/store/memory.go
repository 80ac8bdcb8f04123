package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/surf-report/internal/surf"
)

var (
	// ErrNotFound is returned when no fresh report is available for a location.
	ErrNotFound = errors.New("no surf report for location")
)

// MemoryStore is a concurrency-safe in-memory cache of the latest report per
// location. It is not a history: each save replaces the previous report.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location id
	data map[string]surf.SurfReport

	maxAge time.Duration // reports older than this are treated as missing (0 = never)
	clock  clockwork.Clock
}

// NewMemoryStore creates a new MemoryStore. If maxAge is <= 0 reports never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(maxAge, clockwork.NewRealClock())
}

// NewMemoryStoreWithClock is NewMemoryStore with an explicit time source.
func NewMemoryStoreWithClock(maxAge time.Duration, clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]surf.SurfReport),
		maxAge: maxAge,
		clock:  clock,
	}
}

// SaveReport replaces the cached report for the report's location. An older
// report never overwrites a newer one.
func (s *MemoryStore) SaveReport(report surf.SurfReport) {
	key := report.Location.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.data[key]; ok && existing.Timestamp.After(report.Timestamp) {
		return
	}
	s.data[key] = report
}

// GetLatest returns the cached report for a location.
func (s *MemoryStore) GetLatest(locationID string) (surf.SurfReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[locationID]
	if !ok {
		return surf.SurfReport{}, ErrNotFound
	}

	if s.maxAge > 0 && s.clock.Since(report.Timestamp) > s.maxAge {
		return surf.SurfReport{}, ErrNotFound
	}
	return report, nil
}

// Locations returns the ids that currently hold a report, in no particular order.
func (s *MemoryStore) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids
}
