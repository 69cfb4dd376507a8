package observer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/lib/observer"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"
)

type mockStorage struct {
	products map[int64]models.Product

	recordErr error

	recordedProductID int64
	recordedPrice     decimal.NullDecimal
	recordedInStock   bool
	recordedNotif     *models.Notification
	recordCalls       int
}

func (m *mockStorage) ProductByID(_ context.Context, productID int64) (models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return models.Product{}, storage.ErrProductsNotFound
	}
	return p, nil
}

func (m *mockStorage) RecordObservation(_ context.Context, productID int64, price decimal.NullDecimal, inStock bool, n *models.Notification) error {
	m.recordCalls++
	m.recordedProductID = productID
	m.recordedPrice = price
	m.recordedInStock = inStock
	m.recordedNotif = n
	return m.recordErr
}

type mockConsumer struct {
	handler func(ctx context.Context, body []byte) error
}

func (m *mockConsumer) Consume(_ context.Context, handler func(ctx context.Context, body []byte) error) error {
	m.handler = handler
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T, store *mockStorage) func([]byte) error {
	t.Helper()

	consumer := &mockConsumer{}
	obs := observer.New(discard(), store)

	require.NoError(t, obs.Run(context.Background(), consumer))
	require.NotNil(t, consumer.handler)

	return func(body []byte) error {
		return consumer.handler(context.Background(), body)
	}
}

func result(t *testing.T, r models.ScrapeResult) []byte {
	t.Helper()

	body, err := json.Marshal(r)
	require.NoError(t, err)
	return body
}

func TestObserverRecordsObservationAndNotification(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{
		1: {ID: 1, Price: decimal.NewNullDecimal(decimal.RequireFromString("100"))},
	}}
	handle := setup(t, store)

	err := handle(result(t, models.ScrapeResult{
		ID:      1,
		Price:   decimal.NewNullDecimal(decimal.RequireFromString("98.5")),
		InStock: true,
	}))

	require.NoError(t, err)
	assert.Equal(t, 1, store.recordCalls)
	assert.Equal(t, int64(1), store.recordedProductID)
	assert.True(t, store.recordedInStock)

	require.NotNil(t, store.recordedNotif)
	assert.Equal(t, models.PriceDrop, store.recordedNotif.Kind)
	assert.Equal(t, "Price dropped from $100 to $98.5", store.recordedNotif.Message)
}

func TestObserverSmallChangeStillRecorded(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{
		1: {ID: 1, Price: decimal.NewNullDecimal(decimal.RequireFromString("100"))},
	}}
	handle := setup(t, store)

	err := handle(result(t, models.ScrapeResult{
		ID:    1,
		Price: decimal.NewNullDecimal(decimal.RequireFromString("100.5")),
	}))

	require.NoError(t, err)
	// History still moves, no notification fires.
	assert.Equal(t, 1, store.recordCalls)
	assert.Nil(t, store.recordedNotif)
	assert.True(t, store.recordedPrice.Valid)
}

func TestObserverFirstObservationHasNoReference(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{
		1: {ID: 1}, // no price yet
	}}
	handle := setup(t, store)

	err := handle(result(t, models.ScrapeResult{
		ID:    1,
		Price: decimal.NewNullDecimal(decimal.RequireFromString("10")),
	}))

	require.NoError(t, err)
	assert.Equal(t, 1, store.recordCalls)
	assert.Nil(t, store.recordedNotif)
}

func TestObserverUnknownProductDropsMessage(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{}}
	handle := setup(t, store)

	err := handle(result(t, models.ScrapeResult{ID: 5}))

	// Ack, not retry: the product was deleted after the scrape was queued.
	require.NoError(t, err)
	assert.Equal(t, 0, store.recordCalls)
}

func TestObserverPersistenceFailureIsRetried(t *testing.T) {
	store := &mockStorage{
		products: map[int64]models.Product{
			1: {ID: 1, Price: decimal.NewNullDecimal(decimal.RequireFromString("100"))},
		},
		recordErr: &storage.PersistenceError{Op: "test", Err: errors.New("boom")},
	}
	handle := setup(t, store)

	err := handle(result(t, models.ScrapeResult{
		ID:    1,
		Price: decimal.NewNullDecimal(decimal.RequireFromString("50")),
	}))

	require.Error(t, err)

	var perr *storage.PersistenceError
	assert.ErrorAs(t, err, &perr)
}

func TestObserverInvalidPayload(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{}}
	handle := setup(t, store)

	err := handle([]byte("not json"))

	require.Error(t, err)
	assert.Equal(t, 0, store.recordCalls)
}
