// Package service exposes read-only projections over the kill store for
// the API layer. It never writes; ingestion owns the write path.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// ErrBadFilter marks an invalid recent-kills filter combination.
var ErrBadFilter = errors.New("exactly one of system_id and region_id must be set")

const (
	defaultLimit = 25
	maxLimit     = 200
)

// Store is the read side of the kill store.
type Store interface {
	GetKill(ctx context.Context, killID int64) (*models.Kill, error)
	Recent(ctx context.Context, systemID, regionID int64, limit int) ([]*models.Kill, error)
	ItemDemand(ctx context.Context, typeID int64) (int64, error)
	TopDestroyed(ctx context.Context, limit int) ([]models.ItemDemand, error)
	ActiveHotspots(ctx context.Context) ([]*models.Hotspot, error)
	CountKills(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// Query is the read-only façade composing store operations.
type Query struct {
	store Store
}

// NewQuery creates the query service.
func NewQuery(store Store) *Query {
	return &Query{store: store}
}

// Kill returns a single kill by ID, or nil if absent.
func (q *Query) Kill(ctx context.Context, killID int64) (*models.Kill, error) {
	return q.store.GetKill(ctx, killID)
}

// RecentKills returns up to limit kills most-recent-first for a system
// or a region. Exactly one of systemID/regionID must be non-zero.
func (q *Query) RecentKills(ctx context.Context, systemID, regionID int64, limit int) ([]*models.Kill, error) {
	if (systemID == 0) == (regionID == 0) {
		return nil, ErrBadFilter
	}
	limit = clampLimit(limit)
	kills, err := q.store.Recent(ctx, systemID, regionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent kills: %w", err)
	}
	return kills, nil
}

// ActiveHotspots returns all live hotspots, most recent first.
func (q *Query) ActiveHotspots(ctx context.Context) ([]*models.Hotspot, error) {
	return q.store.ActiveHotspots(ctx)
}

// ItemDemand returns the destroyed-quantity counter for one item type.
func (q *Query) ItemDemand(ctx context.Context, typeID int64) (int64, error) {
	return q.store.ItemDemand(ctx, typeID)
}

// TopDestroyed returns the destroyed-item leaderboard.
func (q *Query) TopDestroyed(ctx context.Context, limit int) ([]models.ItemDemand, error) {
	return q.store.TopDestroyed(ctx, clampLimit(limit))
}

// Stats summarizes stored kills, active hotspots, and store health. A
// store outage yields a degraded stats record rather than an error.
func (q *Query) Stats(ctx context.Context) *models.Stats {
	stats := &models.Stats{StoreHealthy: true}

	if err := q.store.Ping(ctx); err != nil {
		stats.StoreHealthy = false
		stats.StoreError = err.Error()
		return stats
	}

	if n, err := q.store.CountKills(ctx); err == nil {
		stats.StoredKills = n
	}
	if hotspots, err := q.store.ActiveHotspots(ctx); err == nil {
		stats.ActiveHotspots = len(hotspots)
	}

	return stats
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}
