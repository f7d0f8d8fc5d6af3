package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Killmail(t *testing.T) {
	gofakeit.Seed(1)
	g := newGenerator(30000142, 1.0, 0)

	km, missing := g.killmail()
	assert.False(t, missing)
	assert.NotZero(t, km.KillmailID)
	assert.Equal(t, int64(30000142), km.SolarSystemID)
	assert.NotZero(t, km.Victim.ShipTypeID)
	assert.NotEmpty(t, km.Attackers)
	assert.False(t, km.KillmailTime.IsZero())
}

func TestGenerator_IDsIncrease(t *testing.T) {
	gofakeit.Seed(1)
	g := newGenerator(30000142, 0, 0)

	a, _ := g.killmail()
	b, _ := g.killmail()
	assert.Greater(t, b.KillmailID, a.KillmailID)
}

func TestSimulator_FeedAndDetail(t *testing.T) {
	gofakeit.Seed(1)
	sim := newSimulator(5, 30000142, 0.5, 0)

	// Pull feed batches until one is non-empty.
	var refs []ref
	for i := 0; i < 20 && len(refs) == 0; i++ {
		rec := httptest.NewRecorder()
		sim.handleFeed(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feed/recent", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Refs []ref `json:"refs"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		refs = body.Refs
	}
	require.NotEmpty(t, refs)

	// Every served ref resolves to a killmail with matching ID.
	rec := httptest.NewRecorder()
	url := "/api/v1/killmails/" + strconv.FormatInt(refs[0].KillID, 10) + "/" + refs[0].Hash
	sim.handleDetail(rec, httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var km killmail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &km))
	assert.Equal(t, refs[0].KillID, km.KillmailID)
}

func TestSimulator_DetailUnknownID(t *testing.T) {
	sim := newSimulator(5, 30000142, 0, 0)

	rec := httptest.NewRecorder()
	sim.handleDetail(rec, httptest.NewRequest(http.MethodGet, "/api/v1/killmails/123/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
