package models

import "time"

// RawKillmail is the payload shape returned by the detail source. Field
// presence is not guaranteed; the normalizer validates before a Kill is
// ever created.
type RawKillmail struct {
	KillmailID    int64         `json:"killmail_id"`
	KillmailTime  time.Time     `json:"killmail_time"`
	SolarSystemID int64         `json:"solar_system_id"`
	Victim        RawVictim     `json:"victim"`
	Attackers     []RawAttacker `json:"attackers"`
	Meta          RawMeta       `json:"zkb"`
}

// RawVictim is the victim block of a raw killmail.
type RawVictim struct {
	ShipTypeID  int64     `json:"ship_type_id"`
	CharacterID int64     `json:"character_id,omitempty"`
	Items       []RawItem `json:"items,omitempty"`
}

// RawItem carries separate destroyed and dropped quantities; either side
// may be zero or missing.
type RawItem struct {
	ItemTypeID        int64 `json:"item_type_id"`
	QuantityDestroyed int64 `json:"quantity_destroyed,omitempty"`
	QuantityDropped   int64 `json:"quantity_dropped,omitempty"`
}

// RawAttacker is one entry of the attacker list. Only the list length is
// used by the normalizer; identity fields are carried for completeness.
type RawAttacker struct {
	CharacterID int64 `json:"character_id,omitempty"`
	ShipTypeID  int64 `json:"ship_type_id,omitempty"`
	FinalBlow   bool  `json:"final_blow,omitempty"`
}

// RawMeta is the feed-side enrichment block (appraised value, NPC flag).
type RawMeta struct {
	TotalValue float64 `json:"totalValue"`
	NPC        bool    `json:"npc"`
}
