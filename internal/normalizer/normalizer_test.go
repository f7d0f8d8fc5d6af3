package normalizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullsec-systems/hotzone/internal/models"
	"github.com/nullsec-systems/hotzone/internal/universe"
)

func testSnapshot() *universe.Snapshot {
	return universe.NewSnapshot(map[int64]int64{
		30000142: 10000002,
		30002187: 10000043,
	})
}

func validRaw() *models.RawKillmail {
	return &models.RawKillmail{
		KillmailID:    9001,
		KillmailTime:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		SolarSystemID: 30000142,
		Victim: models.RawVictim{
			ShipTypeID: 587,
			Items: []models.RawItem{
				{ItemTypeID: 500, QuantityDestroyed: 2},
				{ItemTypeID: 501, QuantityDropped: 3},
				{ItemTypeID: 502, QuantityDestroyed: 1, QuantityDropped: 4},
				{ItemTypeID: 503},
			},
		},
		Attackers: []models.RawAttacker{{CharacterID: 1, FinalBlow: true}},
		Meta:      models.RawMeta{TotalValue: 12_500_000.5, NPC: false},
	}
}

func TestNormalize(t *testing.T) {
	kill, err := Normalize(validRaw(), testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, int64(9001), kill.KillID)
	assert.Equal(t, int64(30000142), kill.SystemID)
	assert.Equal(t, int64(10000002), kill.RegionID)
	assert.Equal(t, int64(587), kill.ShipTypeID)
	assert.Equal(t, 12_500_000.5, kill.Value)
	assert.Equal(t, 1, kill.AttackerCount)
	assert.True(t, kill.Solo)
	assert.False(t, kill.NPC)
}

func TestNormalize_ItemSplit(t *testing.T) {
	kill, err := Normalize(validRaw(), testSnapshot())
	require.NoError(t, err)

	// Item 502 appears on both sides; item 503 (zero both ways) on neither.
	assert.Equal(t, []models.ItemStack{
		{TypeID: 500, Quantity: 2},
		{TypeID: 502, Quantity: 1},
	}, kill.Destroyed)
	assert.Equal(t, []models.ItemStack{
		{TypeID: 501, Quantity: 3},
		{TypeID: 502, Quantity: 4},
	}, kill.Dropped)
}

func TestNormalize_AttackerCount(t *testing.T) {
	raw := validRaw()
	raw.Attackers = []models.RawAttacker{{CharacterID: 1}, {CharacterID: 2}, {CharacterID: 3}}

	kill, err := Normalize(raw, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, 3, kill.AttackerCount)
	assert.False(t, kill.Solo)
}

func TestNormalize_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RawKillmail)
	}{
		{"missing killmail_id", func(r *models.RawKillmail) { r.KillmailID = 0 }},
		{"missing solar_system_id", func(r *models.RawKillmail) { r.SolarSystemID = 0 }},
		{"missing killmail_time", func(r *models.RawKillmail) { r.KillmailTime = time.Time{} }},
		{"missing ship_type_id", func(r *models.RawKillmail) { r.Victim.ShipTypeID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			tt.mutate(raw)

			_, err := Normalize(raw, testSnapshot())
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestNormalize_NilPayload(t *testing.T) {
	_, err := Normalize(nil, testSnapshot())
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestNormalize_UnmappedSystem(t *testing.T) {
	raw := validRaw()
	raw.SolarSystemID = 31000001 // wormhole space, not in map

	_, err := Normalize(raw, testSnapshot())
	assert.ErrorIs(t, err, ErrUnmappedSystem)
}
