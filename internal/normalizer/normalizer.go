// Package normalizer converts raw killmail payloads into canonical Kill
// records. Malformed or unmappable payloads are rejected with typed
// errors so the pipeline can count and drop them without log spam.
package normalizer

import (
	"errors"
	"fmt"

	"github.com/nullsec-systems/hotzone/internal/models"
	"github.com/nullsec-systems/hotzone/internal/universe"
)

var (
	// ErrMissingField marks a payload lacking a required field.
	ErrMissingField = errors.New("killmail missing required field")

	// ErrUnmappedSystem marks a killmail from a system absent in the
	// reference map. Filters wormhole and other unlisted space.
	ErrUnmappedSystem = errors.New("solar system not in reference map")
)

// Normalize validates raw and produces a canonical Kill. The region is
// resolved through the snapshot; a Kill is never created with an
// unresolved region.
func Normalize(raw *models.RawKillmail, snap *universe.Snapshot) (*models.Kill, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: payload", ErrMissingField)
	}
	if raw.KillmailID == 0 {
		return nil, fmt.Errorf("%w: killmail_id", ErrMissingField)
	}
	if raw.SolarSystemID == 0 {
		return nil, fmt.Errorf("%w: solar_system_id", ErrMissingField)
	}
	if raw.KillmailTime.IsZero() {
		return nil, fmt.Errorf("%w: killmail_time", ErrMissingField)
	}
	if raw.Victim.ShipTypeID == 0 {
		return nil, fmt.Errorf("%w: victim.ship_type_id", ErrMissingField)
	}

	regionID, ok := snap.RegionID(raw.SolarSystemID)
	if !ok {
		return nil, fmt.Errorf("%w: system %d", ErrUnmappedSystem, raw.SolarSystemID)
	}

	var destroyed, dropped []models.ItemStack
	for _, item := range raw.Victim.Items {
		if item.QuantityDestroyed > 0 {
			destroyed = append(destroyed, models.ItemStack{TypeID: item.ItemTypeID, Quantity: item.QuantityDestroyed})
		}
		if item.QuantityDropped > 0 {
			dropped = append(dropped, models.ItemStack{TypeID: item.ItemTypeID, Quantity: item.QuantityDropped})
		}
	}

	attackers := len(raw.Attackers)

	return &models.Kill{
		KillID:        raw.KillmailID,
		Time:          raw.KillmailTime.UTC(),
		SystemID:      raw.SolarSystemID,
		RegionID:      regionID,
		ShipTypeID:    raw.Victim.ShipTypeID,
		Value:         raw.Meta.TotalValue,
		AttackerCount: attackers,
		Solo:          attackers == 1,
		NPC:           raw.Meta.NPC,
		Destroyed:     destroyed,
		Dropped:       dropped,
	}, nil
}
