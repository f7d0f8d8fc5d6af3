package models

import "time"

// KillRef is a lightweight pointer to a killmail as published by the feed.
// The hash authorizes fetching the full killmail from the detail source.
// Refs are transient and never persisted.
type KillRef struct {
	KillID int64  `json:"kill_id"`
	Hash   string `json:"hash"`
}

// ItemStack is a quantity of a single item type fitted to or carried by
// the victim ship.
type ItemStack struct {
	TypeID   int64 `json:"type_id"`
	Quantity int64 `json:"quantity"`
}

// Kill is the canonical killmail record produced by the normalizer and
// held in the store. Immutable once created.
type Kill struct {
	KillID        int64       `json:"kill_id"`
	Time          time.Time   `json:"time"`
	SystemID      int64       `json:"system_id"`
	RegionID      int64       `json:"region_id"`
	ShipTypeID    int64       `json:"ship_type_id"`
	Value         float64     `json:"value"`
	AttackerCount int         `json:"attacker_count"`
	Solo          bool        `json:"solo"`
	NPC           bool        `json:"npc"`
	Destroyed     []ItemStack `json:"destroyed,omitempty"`
	Dropped       []ItemStack `json:"dropped,omitempty"`
}

// Hotspot records a detected spike of kill activity in a single system.
// Immutable; expires from the store after a short retention.
type Hotspot struct {
	ID            string    `json:"id"`
	SystemID      int64     `json:"system_id"`
	RegionID      int64     `json:"region_id"`
	KillCount     int       `json:"kill_count"`
	WindowSeconds int       `json:"window_seconds"`
	DetectedAt    time.Time `json:"detected_at"`
	// Ship and value of the kill that triggered this detection.
	ShipTypeID int64   `json:"ship_type_id"`
	Value      float64 `json:"value"`
}

// ItemDemand is one entry of the destroyed-item leaderboard.
type ItemDemand struct {
	TypeID    int64 `json:"type_id"`
	Destroyed int64 `json:"destroyed"`
}

// Stats summarizes the engine's current state for the query surface.
type Stats struct {
	StoredKills    int64  `json:"stored_kills"`
	ActiveHotspots int    `json:"active_hotspots"`
	StoreHealthy   bool   `json:"store_healthy"`
	StoreError     string `json:"store_error,omitempty"`
}
