package main

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// killmail mirrors the detail source payload shape consumed by hotzone.
type killmail struct {
	KillmailID    int64      `json:"killmail_id"`
	KillmailTime  time.Time  `json:"killmail_time"`
	SolarSystemID int64      `json:"solar_system_id"`
	Victim        victim     `json:"victim"`
	Attackers     []attacker `json:"attackers"`
	Meta          meta       `json:"zkb"`
}

type victim struct {
	ShipTypeID  int64  `json:"ship_type_id"`
	CharacterID int64  `json:"character_id"`
	Items       []item `json:"items"`
}

type item struct {
	ItemTypeID        int64 `json:"item_type_id"`
	QuantityDestroyed int64 `json:"quantity_destroyed,omitempty"`
	QuantityDropped   int64 `json:"quantity_dropped,omitempty"`
}

type attacker struct {
	CharacterID int64 `json:"character_id"`
	ShipTypeID  int64 `json:"ship_type_id"`
	FinalBlow   bool  `json:"final_blow"`
}

type generator struct {
	nextID      int64
	burstSystem int64
	burstOdds   float64
	missOdds    float64
}

// A handful of well-known trade and combat systems for variety.
var systems = []int64{30000142, 30002187, 30002659, 30002053, 30045349}

var shipTypes = []int64{587, 602, 622, 670, 17738, 28352}

func newGenerator(burstSystem int64, burstOdds, missOdds float64) *generator {
	return &generator{
		nextID:      int64(gofakeit.Number(100_000_000, 200_000_000)),
		burstSystem: burstSystem,
		burstOdds:   burstOdds,
		missOdds:    missOdds,
	}
}

// killmail produces the next fake killmail. The second return marks refs
// whose detail lookup should 404, to exercise the drop path.
func (g *generator) killmail() (*killmail, bool) {
	g.nextID++

	systemID := systems[gofakeit.Number(0, len(systems)-1)]
	if gofakeit.Float64Range(0, 1) < g.burstOdds {
		systemID = g.burstSystem
	}

	attackers := make([]attacker, gofakeit.Number(1, 8))
	for i := range attackers {
		attackers[i] = attacker{
			CharacterID: int64(gofakeit.Number(90_000_000, 98_000_000)),
			ShipTypeID:  shipTypes[gofakeit.Number(0, len(shipTypes)-1)],
			FinalBlow:   i == 0,
		}
	}

	items := make([]item, gofakeit.Number(0, 6))
	for i := range items {
		items[i] = item{
			ItemTypeID:        int64(gofakeit.Number(400, 600)),
			QuantityDestroyed: int64(gofakeit.Number(0, 5)),
			QuantityDropped:   int64(gofakeit.Number(0, 5)),
		}
	}

	km := &killmail{
		KillmailID:    g.nextID,
		KillmailTime:  time.Now().UTC().Add(-time.Duration(gofakeit.Number(0, 300)) * time.Second),
		SolarSystemID: systemID,
		Victim: victim{
			ShipTypeID:  shipTypes[gofakeit.Number(0, len(shipTypes)-1)],
			CharacterID: int64(gofakeit.Number(90_000_000, 98_000_000)),
			Items:       items,
		},
		Attackers: attackers,
		Meta: meta{
			TotalValue: gofakeit.Float64Range(100_000, 5_000_000_000),
			NPC:        gofakeit.Float64Range(0, 1) < 0.05,
		},
	}

	return km, gofakeit.Float64Range(0, 1) < g.missOdds
}

type meta struct {
	TotalValue float64 `json:"totalValue"`
	NPC        bool    `json:"npc"`
}
