package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveField_UpdatesExistingDocument(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bridge := NewPersistenceBridge(store, testLogger())
	user := testAccount("driver@example.com")
	require.NoError(t, bridge.CreateDocument(ctx, user))

	require.NoError(t, bridge.SaveField(ctx, user, models.FieldMonthlySearches, 3))

	assert.Equal(t, 3, store.field(user.ID, models.FieldMonthlySearches))
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, 0, store.upserts)
}

func TestSaveField_CreatesMissingDocument(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bridge := NewPersistenceBridge(store, testLogger())
	user := testAccount("driver@example.com")

	require.NoError(t, bridge.SaveField(ctx, user, models.FieldIsPremium, true))

	assert.Equal(t, true, store.field(user.ID, models.FieldIsPremium))
	assert.Equal(t, 1, store.upserts)
}

func TestSaveField_GuestIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bridge := NewPersistenceBridge(store, testLogger())

	require.NoError(t, bridge.SaveField(ctx, models.GuestUser(uuid.New()), models.FieldIsPremium, true))
	require.NoError(t, bridge.CreateDocument(ctx, models.GuestUser(uuid.New())))

	doc, err := bridge.LoadDocument(ctx, models.GuestUser(uuid.New()))
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, 0, store.writeCount())
}

func TestSaveField_ReturnsStoreError(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	bridge := NewPersistenceBridge(store, testLogger())

	err := bridge.SaveField(context.Background(), testAccount("driver@example.com"), models.FieldSavedSpots, []models.ParkingSpot{})
	assert.EqualError(t, err, "connection refused")
}

func TestSaveField_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := newMemoryStore()
	bridge := NewPersistenceBridge(store, testLogger())

	err := bridge.SaveField(ctx, testAccount("driver@example.com"), models.FieldIsPremium, true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.writeCount())
}

func TestSetPremiumByEmail(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	bridge := NewPersistenceBridge(store, testLogger())
	user := testAccount("driver@example.com")
	require.NoError(t, bridge.CreateDocument(ctx, user))

	n, err := bridge.SetPremiumByEmail("DRIVER@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	doc, err := bridge.LoadDocument(ctx, user)
	require.NoError(t, err)
	assert.True(t, doc.IsPremium)
}
