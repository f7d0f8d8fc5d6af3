package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nullsec-systems/hotzone/internal/models"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func testKill(id int64, at time.Time) *models.Kill {
	return &models.Kill{
		KillID:        id,
		Time:          at,
		SystemID:      30000142,
		RegionID:      10000002,
		ShipTypeID:    587,
		Value:         1_000_000,
		AttackerCount: 1,
		Solo:          true,
		Destroyed:     []models.ItemStack{{TypeID: 500, Quantity: 2}},
		Dropped:       []models.ItemStack{{TypeID: 501, Quantity: 3}},
	}
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	want := testKill(9001, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.PutKill(ctx, want))

	got, err := s.GetKill(ctx, 9001)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, got)
}

func TestStore_GetKillAbsent(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())

	got, err := s.GetKill(context.Background(), 404404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_KillExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, Config{KillTTL: time.Hour, CounterTTL: time.Hour, HotspotTTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, s.PutKill(ctx, testKill(1, time.Now())))

	mr.FastForward(2 * time.Hour)

	got, err := s.GetKill(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	demand, err := s.ItemDemand(ctx, 500)
	require.NoError(t, err)
	assert.Zero(t, demand)
}

func TestStore_RecentBySystem(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	base := time.Now().Add(-10 * time.Minute).Truncate(time.Second)
	for i := int64(1); i <= 5; i++ {
		k := testKill(i, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.PutKill(ctx, k))
	}

	kills, err := s.Recent(ctx, 30000142, 0, 3)
	require.NoError(t, err)
	require.Len(t, kills, 3)

	// Most recent first.
	assert.Equal(t, int64(5), kills[0].KillID)
	assert.Equal(t, int64(4), kills[1].KillID)
	assert.Equal(t, int64(3), kills[2].KillID)
	for _, k := range kills {
		assert.Equal(t, int64(30000142), k.SystemID)
	}
}

func TestStore_RecentByRegion(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	a := testKill(1, now.Add(-time.Minute))
	b := testKill(2, now)
	b.SystemID = 30002187 // different system, same region
	require.NoError(t, s.PutKill(ctx, a))
	require.NoError(t, s.PutKill(ctx, b))

	kills, err := s.Recent(ctx, 0, 10000002, 10)
	require.NoError(t, err)
	require.Len(t, kills, 2)
	assert.Equal(t, int64(2), kills[0].KillID)
	assert.Equal(t, int64(1), kills[1].KillID)
}

func TestStore_RecentNoFilter(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, s.PutKill(ctx, testKill(1, time.Now())))

	kills, err := s.Recent(ctx, 0, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, kills)
}

func TestStore_ItemDemandSumsDestroyedOnly(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	now := time.Now()
	k1 := testKill(1, now)
	k1.Destroyed = []models.ItemStack{{TypeID: 500, Quantity: 2}}
	k1.Dropped = []models.ItemStack{{TypeID: 500, Quantity: 7}}
	k2 := testKill(2, now)
	k2.Destroyed = []models.ItemStack{{TypeID: 500, Quantity: 3}}
	k2.Dropped = nil

	require.NoError(t, s.PutKill(ctx, k1))
	require.NoError(t, s.PutKill(ctx, k2))

	demand, err := s.ItemDemand(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(5), demand)
}

func TestStore_ItemDemandAbsent(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())

	demand, err := s.ItemDemand(context.Background(), 999)
	require.NoError(t, err)
	assert.Zero(t, demand)
}

func TestStore_ShipLosses(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.PutKill(ctx, testKill(1, now)))
	require.NoError(t, s.PutKill(ctx, testKill(2, now)))

	losses, err := s.ShipLosses(ctx, 587)
	require.NoError(t, err)
	assert.Equal(t, int64(2), losses)
}

func TestStore_CounterTTLRefreshedOnIncrement(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, Config{KillTTL: 48 * time.Hour, CounterTTL: 24 * time.Hour, HotspotTTL: time.Hour})
	ctx := context.Background()

	require.NoError(t, s.PutKill(ctx, testKill(1, time.Now())))

	// Half the retention passes, then another increment slides the expiry.
	mr.FastForward(12 * time.Hour)
	require.NoError(t, s.PutKill(ctx, testKill(2, time.Now())))

	ttl, err := client.TTL(ctx, "demand:item:500").Result()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	demand, err := s.ItemDemand(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(4), demand)
}

func TestStore_TopDestroyed(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	now := time.Now()
	k := testKill(1, now)
	k.Destroyed = []models.ItemStack{
		{TypeID: 500, Quantity: 2},
		{TypeID: 600, Quantity: 10},
		{TypeID: 700, Quantity: 5},
	}
	require.NoError(t, s.PutKill(ctx, k))

	top, err := s.TopDestroyed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, models.ItemDemand{TypeID: 600, Destroyed: 10}, top[0])
	assert.Equal(t, models.ItemDemand{TypeID: 700, Destroyed: 5}, top[1])
}

func TestStore_Hotspots(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	now := time.Now().Truncate(time.Second).UTC()
	older := &models.Hotspot{ID: "h1", SystemID: 1, RegionID: 10, KillCount: 5, WindowSeconds: 300, DetectedAt: now.Add(-time.Minute)}
	newer := &models.Hotspot{ID: "h2", SystemID: 2, RegionID: 20, KillCount: 6, WindowSeconds: 300, DetectedAt: now}
	require.NoError(t, s.PutHotspot(ctx, older))
	require.NoError(t, s.PutHotspot(ctx, newer))

	active, err := s.ActiveHotspots(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "h2", active[0].ID)
	assert.Equal(t, "h1", active[1].ID)
}

func TestStore_HotspotsExpire(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, Config{KillTTL: 24 * time.Hour, CounterTTL: 24 * time.Hour, HotspotTTL: time.Hour})
	ctx := context.Background()

	h := &models.Hotspot{ID: "h1", SystemID: 1, RegionID: 10, KillCount: 5, WindowSeconds: 300, DetectedAt: time.Now()}
	require.NoError(t, s.PutHotspot(ctx, h))

	mr.FastForward(2 * time.Hour)

	active, err := s.ActiveHotspots(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStore_CountKills(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.PutKill(ctx, testKill(1, now)))
	require.NoError(t, s.PutKill(ctx, testKill(2, now)))
	require.NoError(t, s.PutKill(ctx, testKill(3, now.Add(-25*time.Hour)))) // outside window

	n, err := s.CountKills(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_Ping(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer client.Close()

	s := New(client, DefaultConfig())
	assert.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}

func TestStore_DuplicatePutOverwritesRecord(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	s := New(client, DefaultConfig())
	ctx := context.Background()

	k := testKill(1, time.Now().Truncate(time.Second))
	require.NoError(t, s.PutKill(ctx, k))
	require.NoError(t, s.PutKill(ctx, k))

	// Timelines key by ID, so a re-store does not duplicate entries.
	kills, err := s.Recent(ctx, k.SystemID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, kills, 1)
}
