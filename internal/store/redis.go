// Package store persists canonical kills in Redis under independent,
// TTL-bounded key namespaces.
//
// Redis Key Structure:
//
//	kill:{kill_id}          - JSON kill record (expires after kill TTL)
//	kills:index             - ZSET of kill IDs by kill time (global, for stats)
//	tl:system:{system_id}   - ZSET timeline of kill IDs per solar system
//	tl:region:{region_id}   - ZSET timeline of kill IDs per region
//	count:ship:{type_id}    - loss counter per ship type (sliding 24h expiry)
//	demand:item:{type_id}   - destroyed-quantity counter per item type (sliding 24h expiry)
//	hotspot:{uuid}          - JSON hotspot record (expires after hotspot TTL)
//	hotspots:index          - ZSET of hotspot IDs by detection time
//
// Each key's mutations are independent; no cross-key transactions are
// needed, so concurrent pipeline writes and query reads are safe.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nullsec-systems/hotzone/internal/models"
)

// Config holds the retention windows for each namespace.
type Config struct {
	KillTTL    time.Duration
	CounterTTL time.Duration
	HotspotTTL time.Duration
}

// DefaultConfig returns the standard retention windows.
func DefaultConfig() Config {
	return Config{
		KillTTL:    24 * time.Hour,
		CounterTTL: 24 * time.Hour,
		HotspotTTL: time.Hour,
	}
}

// Store is the Redis-backed kill store.
type Store struct {
	redis *redis.Client
	cfg   Config
}

// New creates a store over an existing Redis connection.
func New(client *redis.Client, cfg Config) *Store {
	if cfg.KillTTL == 0 {
		cfg.KillTTL = DefaultConfig().KillTTL
	}
	if cfg.CounterTTL == 0 {
		cfg.CounterTTL = DefaultConfig().CounterTTL
	}
	if cfg.HotspotTTL == 0 {
		cfg.HotspotTTL = DefaultConfig().HotspotTTL
	}
	return &Store{redis: client, cfg: cfg}
}

// PutKill writes the kill record, appends it to the system and region
// timelines, and bumps the ship-loss and item-demand counters. Counter
// expirations are refreshed on every increment, so continuously active
// counters never lapse; they go cold after CounterTTL of inactivity.
func (s *Store) PutKill(ctx context.Context, kill *models.Kill) error {
	data, err := json.Marshal(kill)
	if err != nil {
		return fmt.Errorf("marshal kill %d: %w", kill.KillID, err)
	}

	member := strconv.FormatInt(kill.KillID, 10)
	score := float64(kill.Time.Unix())
	cutoff := fmt.Sprintf("(%d", time.Now().Add(-s.cfg.KillTTL).Unix())

	pipe := s.redis.Pipeline()

	pipe.Set(ctx, killKey(kill.KillID), data, s.cfg.KillTTL)

	pipe.ZAdd(ctx, killsIndexKey, redis.Z{Score: score, Member: member})
	pipe.ZRemRangeByScore(ctx, killsIndexKey, "-inf", cutoff)

	sysKey := systemTimelineKey(kill.SystemID)
	pipe.ZAdd(ctx, sysKey, redis.Z{Score: score, Member: member})
	pipe.ZRemRangeByScore(ctx, sysKey, "-inf", cutoff)
	pipe.Expire(ctx, sysKey, s.cfg.KillTTL)

	regKey := regionTimelineKey(kill.RegionID)
	pipe.ZAdd(ctx, regKey, redis.Z{Score: score, Member: member})
	pipe.ZRemRangeByScore(ctx, regKey, "-inf", cutoff)
	pipe.Expire(ctx, regKey, s.cfg.KillTTL)

	shipKey := shipCountKey(kill.ShipTypeID)
	pipe.Incr(ctx, shipKey)
	pipe.Expire(ctx, shipKey, s.cfg.CounterTTL)

	for _, item := range kill.Destroyed {
		demandKey := itemDemandKey(item.TypeID)
		pipe.IncrBy(ctx, demandKey, item.Quantity)
		pipe.Expire(ctx, demandKey, s.cfg.CounterTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store kill %d: %w", kill.KillID, err)
	}

	return nil
}

// GetKill returns the kill by ID, or nil if absent or expired.
func (s *Store) GetKill(ctx context.Context, killID int64) (*models.Kill, error) {
	data, err := s.redis.Get(ctx, killKey(killID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kill %d: %w", killID, err)
	}

	var kill models.Kill
	if err := json.Unmarshal(data, &kill); err != nil {
		return nil, fmt.Errorf("unmarshal kill %d: %w", killID, err)
	}

	return &kill, nil
}

// Recent returns up to limit kills most-recent-first from the system or
// region timeline. Exactly one of systemID/regionID should be set; with
// neither set the result is empty. Timeline entries whose kill record
// already expired are skipped.
func (s *Store) Recent(ctx context.Context, systemID, regionID int64, limit int) ([]*models.Kill, error) {
	if limit <= 0 {
		return nil, nil
	}

	var timeline string
	switch {
	case systemID != 0:
		timeline = systemTimelineKey(systemID)
	case regionID != 0:
		timeline = regionTimelineKey(regionID)
	default:
		return nil, nil
	}

	ids, err := s.redis.ZRevRange(ctx, timeline, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read timeline %s: %w", timeline, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "kill:" + id
	}

	values, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch timeline kills: %w", err)
	}

	kills := make([]*models.Kill, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // expired between index read and fetch
		}
		var kill models.Kill
		if err := json.Unmarshal([]byte(raw), &kill); err != nil {
			continue
		}
		kills = append(kills, &kill)
	}

	return kills, nil
}

// ItemDemand returns the destroyed-quantity counter for an item type, or
// 0 if the counter is absent or expired.
func (s *Store) ItemDemand(ctx context.Context, typeID int64) (int64, error) {
	n, err := s.redis.Get(ctx, itemDemandKey(typeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get item demand %d: %w", typeID, err)
	}
	return n, nil
}

// ShipLosses returns the loss counter for a ship type, or 0 if absent.
func (s *Store) ShipLosses(ctx context.Context, shipTypeID int64) (int64, error) {
	n, err := s.redis.Get(ctx, shipCountKey(shipTypeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get ship losses %d: %w", shipTypeID, err)
	}
	return n, nil
}

// TopDestroyed scans all active item-demand counters and returns the top
// entries by destroyed quantity. Cost is proportional to the number of
// distinct active item types.
func (s *Store) TopDestroyed(ctx context.Context, limit int) ([]models.ItemDemand, error) {
	if limit <= 0 {
		return nil, nil
	}

	var entries []models.ItemDemand
	var cursor uint64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, "demand:item:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan item demand: %w", err)
		}

		for _, key := range keys {
			typeID, err := strconv.ParseInt(key[len("demand:item:"):], 10, 64)
			if err != nil {
				continue
			}
			n, err := s.redis.Get(ctx, key).Int64()
			if errors.Is(err, redis.Nil) {
				continue // expired mid-scan
			}
			if err != nil {
				return nil, fmt.Errorf("get item demand %s: %w", key, err)
			}
			entries = append(entries, models.ItemDemand{TypeID: typeID, Destroyed: n})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Destroyed != entries[j].Destroyed {
			return entries[i].Destroyed > entries[j].Destroyed
		}
		return entries[i].TypeID < entries[j].TypeID
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// PutHotspot writes a hotspot record with short retention and indexes it
// by detection time.
func (s *Store) PutHotspot(ctx context.Context, h *models.Hotspot) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal hotspot %s: %w", h.ID, err)
	}

	cutoff := fmt.Sprintf("(%d", time.Now().Add(-s.cfg.HotspotTTL).Unix())

	pipe := s.redis.Pipeline()
	pipe.Set(ctx, hotspotKey(h.ID), data, s.cfg.HotspotTTL)
	pipe.ZAdd(ctx, hotspotsIndexKey, redis.Z{Score: float64(h.DetectedAt.Unix()), Member: h.ID})
	pipe.ZRemRangeByScore(ctx, hotspotsIndexKey, "-inf", cutoff)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store hotspot %s: %w", h.ID, err)
	}
	return nil
}

// ActiveHotspots returns all non-expired hotspots, most recent first.
func (s *Store) ActiveHotspots(ctx context.Context) ([]*models.Hotspot, error) {
	ids, err := s.redis.ZRevRange(ctx, hotspotsIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read hotspot index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = hotspotKey(id)
	}

	values, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch hotspots: %w", err)
	}

	hotspots := make([]*models.Hotspot, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // record expired, index entry not yet pruned
		}
		var h models.Hotspot
		if err := json.Unmarshal([]byte(raw), &h); err != nil {
			continue
		}
		hotspots = append(hotspots, &h)
	}

	return hotspots, nil
}

// CountKills returns the number of kills currently inside the retention
// window, after pruning aged index entries.
func (s *Store) CountKills(ctx context.Context) (int64, error) {
	cutoff := fmt.Sprintf("(%d", time.Now().Add(-s.cfg.KillTTL).Unix())
	if err := s.redis.ZRemRangeByScore(ctx, killsIndexKey, "-inf", cutoff).Err(); err != nil {
		return 0, fmt.Errorf("prune kill index: %w", err)
	}

	n, err := s.redis.ZCard(ctx, killsIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count kills: %w", err)
	}
	return n, nil
}

// Ping reports backing-store reachability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

const (
	killsIndexKey    = "kills:index"
	hotspotsIndexKey = "hotspots:index"
)

func killKey(killID int64) string {
	return fmt.Sprintf("kill:%d", killID)
}

func systemTimelineKey(systemID int64) string {
	return fmt.Sprintf("tl:system:%d", systemID)
}

func regionTimelineKey(regionID int64) string {
	return fmt.Sprintf("tl:region:%d", regionID)
}

func shipCountKey(shipTypeID int64) string {
	return fmt.Sprintf("count:ship:%d", shipTypeID)
}

func itemDemandKey(typeID int64) string {
	return fmt.Sprintf("demand:item:%d", typeID)
}

func hotspotKey(id string) string {
	return fmt.Sprintf("hotspot:%s", id)
}
