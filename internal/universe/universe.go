// Package universe maintains the solar system to region reference map.
// The map is an immutable snapshot loaded from an external reference
// store at startup and replaced atomically on explicit refresh; it is
// never mutated in place.
package universe

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Source loads the full system-to-region mapping from a reference store.
type Source interface {
	Load(ctx context.Context) (map[int64]int64, error)
}

// Snapshot is one immutable load of the reference map.
type Snapshot struct {
	regions  map[int64]int64
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from a mapping. The map is copied so the
// caller cannot mutate the snapshot afterwards.
func NewSnapshot(regions map[int64]int64) *Snapshot {
	copied := make(map[int64]int64, len(regions))
	for sys, region := range regions {
		copied[sys] = region
	}
	return &Snapshot{regions: copied, loadedAt: time.Now().UTC()}
}

// RegionID resolves a solar system to its region. The second return is
// false for systems absent from the reference map (wormhole and other
// unlisted space).
func (s *Snapshot) RegionID(systemID int64) (int64, bool) {
	region, ok := s.regions[systemID]
	return region, ok
}

// Len returns the number of mapped systems.
func (s *Snapshot) Len() int {
	return len(s.regions)
}

// LoadedAt returns when this snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Map owns the current snapshot and the source used to rebuild it.
type Map struct {
	source  Source
	current atomic.Pointer[Snapshot]
}

// NewMap performs the initial load from source and returns a ready map.
func NewMap(ctx context.Context, source Source) (*Map, error) {
	m := &Map{source: source}
	if err := m.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial universe load: %w", err)
	}
	return m, nil
}

// Refresh loads a fresh snapshot and swaps it in atomically. On failure
// the previous snapshot stays current.
func (m *Map) Refresh(ctx context.Context) error {
	regions, err := m.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load reference map: %w", err)
	}
	if len(regions) == 0 {
		return fmt.Errorf("reference map is empty")
	}
	m.current.Store(NewSnapshot(regions))
	return nil
}

// Current returns the active snapshot.
func (m *Map) Current() *Snapshot {
	return m.current.Load()
}

// RegionID resolves against the active snapshot.
func (m *Map) RegionID(systemID int64) (int64, bool) {
	return m.current.Load().RegionID(systemID)
}
