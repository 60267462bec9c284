package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baq-transit/service-routing/internal/domain/network/networktest"
	"github.com/baq-transit/service-routing/internal/platform/domain"
	"github.com/baq-transit/service-routing/internal/repository"
)

type purgeCounter struct{ n int }

func (p *purgeCounter) CachePurgeInc() { p.n++ }

func TestCachedLookup_StationByIDHitsBackingStoreOnce(t *testing.T) {
	sample := networktest.NewSample()
	cached := repository.NewCachedLookup(sample, 16, time.Minute, nil)
	ctx := context.Background()

	first, err := cached.StationByID(ctx, sample.JoeArroyo.ID)
	require.NoError(t, err)
	second, err := cached.StationByID(ctx, sample.JoeArroyo.ID)
	require.NoError(t, err)

	assert.Equal(t, 206, first.StationID)
	assert.Equal(t, *first, *second)
	assert.Equal(t, 1, sample.StationCalls())
}

func TestCachedLookup_RouteByID(t *testing.T) {
	sample := networktest.NewSample()
	cached := repository.NewCachedLookup(sample, 16, time.Minute, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		route, err := cached.RouteByID(ctx, sample.U30.ID)
		require.NoError(t, err)
		assert.Equal(t, 37, route.TransmetroID)
	}
	assert.Equal(t, 1, sample.RouteCalls())
}

func TestCachedLookup_NotFoundIsNotCached(t *testing.T) {
	sample := networktest.NewSample()
	cached := repository.NewCachedLookup(sample, 16, time.Minute, nil)
	missing := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := cached.StationByID(context.Background(), missing)
		assert.True(t, domain.IsNotFound(err))
	}
	assert.Equal(t, 2, sample.StationCalls())
}

func TestCachedLookup_TrunkConnectionsKeyedByLimit(t *testing.T) {
	sample := networktest.NewSample()
	cached := repository.NewCachedLookup(sample, 16, time.Minute, nil)
	ctx := context.Background()

	one, err := cached.TrunkConnectionsBetween(ctx, sample.JoeArroyo.ID, sample.PachoGalan.ID, 1)
	require.NoError(t, err)
	two, err := cached.TrunkConnectionsBetween(ctx, sample.JoeArroyo.ID, sample.PachoGalan.ID, 2)
	require.NoError(t, err)
	_, err = cached.TrunkConnectionsBetween(ctx, sample.JoeArroyo.ID, sample.PachoGalan.ID, 1)
	require.NoError(t, err)

	require.Len(t, one, 1)
	require.Len(t, two, 2)
	assert.Equal(t, sample.R2.ID, one[0].Route.ID)
	assert.Equal(t, sample.R10.ID, two[1].Route.ID)
	assert.Equal(t, 2, sample.TrunkCalls())
}

func TestCachedLookup_ResultsAreCopies(t *testing.T) {
	sample := networktest.NewSample()
	cached := repository.NewCachedLookup(sample, 16, time.Minute, nil)
	ctx := context.Background()

	conns, err := cached.TrunkConnectionsBetween(ctx, sample.Esthercita.ID, sample.BuenosAires.ID, 1)
	require.NoError(t, err)
	conns[0].AmountToArrive = 99

	again, err := cached.TrunkConnectionsBetween(ctx, sample.Esthercita.ID, sample.BuenosAires.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, again[0].AmountToArrive)
}

func TestCachedLookup_Purge(t *testing.T) {
	sample := networktest.NewSample()
	counter := &purgeCounter{}
	cached := repository.NewCachedLookup(sample, 16, time.Minute, counter)
	ctx := context.Background()

	_, err := cached.StationByID(ctx, sample.Ciudadela.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Len())

	cached.Purge()
	assert.Zero(t, cached.Len())
	assert.Equal(t, 1, counter.n)

	_, err = cached.StationByID(ctx, sample.Ciudadela.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sample.StationCalls())
}

func TestCachedLookup_ProximityPassesThrough(t *testing.T) {
	sample := networktest.NewSample()
	cached := repository.NewCachedLookup(sample, 16, time.Minute, nil)

	stations, err := cached.NearbyStations(context.Background(), networktest.Esthercita, 500)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, 205, stations[0].StationID)
	assert.Zero(t, cached.Len())
}
