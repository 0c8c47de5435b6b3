package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/parkeasy/parkeasy-backend/pkg/parkapi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	resp  *parkapi.CityResponse
	err   error
	calls int
}

func (f *fakeSource) GetCity(ctx context.Context, cityID string) (*parkapi.CityResponse, error) {
	f.calls++
	return f.resp, f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dresdenLots() []parkapi.Lot {
	return []parkapi.Lot{
		{Name: "Altmarkt", Address: "Wilsdruffer Str.", Free: 120, Total: 400, State: "open", Coords: &parkapi.Coords{Lat: 51.05, Lng: 13.73}},
		{Name: "Empty Lot", Free: 50, Total: 50},
	}
}

func TestMapLots(t *testing.T) {
	spots := MapLots("Dresden", dresdenLots())
	require.Len(t, spots, 2)

	a := spots[0]
	assert.Equal(t, "Dresden-0", a.ID)
	assert.Equal(t, "Altmarkt", a.Name)
	assert.Equal(t, "Wilsdruffer Str.", a.Address)
	assert.Equal(t, models.SpotTypeMultiStorey, a.Type)
	assert.False(t, a.Pricing.Free)
	assert.Equal(t, 2.5, a.Pricing.HourlyRate)
	assert.Equal(t, 12.0, a.Pricing.DailyMax)
	assert.Equal(t, 120, a.Available)
	assert.Equal(t, 400, a.Total)
	assert.Equal(t, 4.2, a.Rating)
	assert.False(t, a.EVCharging.Available)
	assert.True(t, a.Features.Accessible)
	assert.True(t, a.Features.Covered)
	assert.True(t, a.Features.Security)
	assert.Equal(t, "Parking facility in Dresden", a.Description)
	assert.Equal(t, "open", a.State)
	assert.Equal(t, 51.05, a.Coords.Lat)
	assert.Empty(t, a.NearDestinations)
	require.NotNil(t, a.Hours)
	assert.Equal(t, models.OpenAllDay, a.Hours.Open)

	b := spots[1]
	assert.Equal(t, "Dresden-1", b.ID)
	assert.Equal(t, "Address not available", b.Address)
	assert.True(t, b.Pricing.Free)
	assert.Equal(t, "unknown", b.State)
	assert.Equal(t, &models.Coordinate{}, b.Coords)
}

func TestLoader_Bundled(t *testing.T) {
	source := &fakeSource{}
	loader := NewLoader(source, nil, testLogger())

	spots := loader.Load(context.Background(), "Belfast")
	assert.Len(t, spots, 54)
	assert.Zero(t, source.calls)
}

func TestLoader_Remote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		source := &fakeSource{resp: &parkapi.CityResponse{Lots: dresdenLots()}}
		loader := NewLoader(source, nil, testLogger())

		spots := loader.Load(context.Background(), "Dresden")
		assert.Len(t, spots, 2)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("Failure yields empty list", func(t *testing.T) {
		source := &fakeSource{err: errors.New("connection refused")}
		loader := NewLoader(source, nil, testLogger())

		spots := loader.Load(context.Background(), "Dresden")
		assert.NotNil(t, spots)
		assert.Empty(t, spots)
	})

	t.Run("Missing lots", func(t *testing.T) {
		source := &fakeSource{resp: &parkapi.CityResponse{}}
		loader := NewLoader(source, nil, testLogger())

		spots := loader.Load(context.Background(), "Ulm")
		assert.NotNil(t, spots)
		assert.Empty(t, spots)
	})
}

func TestLoader_RedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss then store", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		cache := NewRedisCache(client, 5*time.Minute)
		source := &fakeSource{resp: &parkapi.CityResponse{Lots: dresdenLots()}}
		loader := NewLoader(source, cache, testLogger())

		expected, err := json.Marshal(MapLots("Dresden", dresdenLots()))
		require.NoError(t, err)

		mockRedis.ExpectGet("catalog:Dresden").RedisNil()
		mockRedis.ExpectSet("catalog:Dresden", expected, 5*time.Minute).SetVal("OK")

		spots := loader.Load(ctx, "Dresden")
		assert.Len(t, spots, 2)
		assert.Equal(t, 1, source.calls)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("Hit skips remote", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		cache := NewRedisCache(client, 5*time.Minute)
		source := &fakeSource{}
		loader := NewLoader(source, cache, testLogger())

		cached, err := json.Marshal(MapLots("Hamburg", dresdenLots()[:1]))
		require.NoError(t, err)
		mockRedis.ExpectGet("catalog:Hamburg").SetVal(string(cached))

		spots := loader.Load(ctx, "Hamburg")
		require.Len(t, spots, 1)
		assert.Equal(t, "Hamburg-0", spots[0].ID)
		assert.Zero(t, source.calls)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("Cache error falls through to remote", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		cache := NewRedisCache(client, time.Minute)
		source := &fakeSource{resp: &parkapi.CityResponse{Lots: dresdenLots()}}
		loader := NewLoader(source, cache, testLogger())

		expected, err := json.Marshal(MapLots("Dresden", dresdenLots()))
		require.NoError(t, err)

		mockRedis.ExpectGet("catalog:Dresden").SetErr(errors.New("redis down"))
		mockRedis.ExpectSet("catalog:Dresden", expected, time.Minute).SetErr(errors.New("redis down"))

		spots := loader.Load(ctx, "Dresden")
		assert.Len(t, spots, 2)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("Refresh invalidates", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		cache := NewRedisCache(client, time.Minute)
		source := &fakeSource{resp: &parkapi.CityResponse{Lots: dresdenLots()}}
		loader := NewLoader(source, cache, testLogger())

		expected, err := json.Marshal(MapLots("Dresden", dresdenLots()))
		require.NoError(t, err)

		mockRedis.ExpectDel("catalog:Dresden").SetVal(1)
		mockRedis.ExpectGet("catalog:Dresden").RedisNil()
		mockRedis.ExpectSet("catalog:Dresden", expected, time.Minute).SetVal("OK")

		spots := loader.Refresh(ctx, "Dresden")
		assert.Len(t, spots, 2)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})
}
