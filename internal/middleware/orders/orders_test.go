package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/dashboard"
	"pricewatch/internal/middleware/orders"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"
)

type mockStorage struct {
	products map[int64]models.Product
	variants map[int64]models.Variant

	nextID int64
	saved  []models.Order

	deleteErr error
	deleted   []int64
}

func (m *mockStorage) SaveOrder(_ context.Context, o models.Order) (models.Order, error) {
	m.nextID++
	o.ID = m.nextID
	m.saved = append(m.saved, o)
	return o, nil
}

func (m *mockStorage) DeleteOrder(_ context.Context, orderID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, orderID)
	return nil
}

func (m *mockStorage) ProductByID(_ context.Context, productID int64) (models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return models.Product{}, storage.ErrProductsNotFound
	}
	return p, nil
}

func (m *mockStorage) VariantByID(_ context.Context, variantID int64) (models.Variant, error) {
	v, ok := m.variants[variantID]
	if !ok {
		return models.Variant{}, storage.ErrVariantsNotFound
	}
	return v, nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateOrderWithExplicitTotal(t *testing.T) {
	store := &mockStorage{}
	op := orders.New(store, dashboard.NewRecentBuffer(nil))

	order, err := op.CreateOrder(context.Background(), 1, nil, 3,
		decimal.NewNullDecimal(money("99.90")))

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(money("99.90")))
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestCreateOrderDefaultsTotalFromProductPrice(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{
		1: {ID: 1, Price: decimal.NewNullDecimal(money("10"))},
	}}
	op := orders.New(store, dashboard.NewRecentBuffer(nil))

	order, err := op.CreateOrder(context.Background(), 1, nil, 2, decimal.NullDecimal{})

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(money("20")))
}

func TestCreateOrderUsesVariantOverride(t *testing.T) {
	variantID := int64(5)
	store := &mockStorage{
		products: map[int64]models.Product{
			1: {ID: 1, Price: decimal.NewNullDecimal(money("10"))},
		},
		variants: map[int64]models.Variant{
			5: {ID: 5, ProductID: 1, PriceOverride: decimal.NewNullDecimal(money("12"))},
		},
	}
	op := orders.New(store, dashboard.NewRecentBuffer(nil))

	order, err := op.CreateOrder(context.Background(), 1, &variantID, 2, decimal.NullDecimal{})

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(money("24")))
}

func TestCreateOrderVariantWithoutOverrideFallsBack(t *testing.T) {
	variantID := int64(5)
	store := &mockStorage{
		products: map[int64]models.Product{
			1: {ID: 1, Price: decimal.NewNullDecimal(money("10"))},
		},
		variants: map[int64]models.Variant{
			5: {ID: 5, ProductID: 1},
		},
	}
	op := orders.New(store, dashboard.NewRecentBuffer(nil))

	order, err := op.CreateOrder(context.Background(), 1, &variantID, 1, decimal.NullDecimal{})

	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(money("10")))
}

func TestCreateOrderWithoutAnyPriceFails(t *testing.T) {
	store := &mockStorage{products: map[int64]models.Product{
		1: {ID: 1}, // never scraped, no price
	}}
	op := orders.New(store, dashboard.NewRecentBuffer(nil))

	_, err := op.CreateOrder(context.Background(), 1, nil, 1, decimal.NullDecimal{})

	assert.ErrorIs(t, err, orders.ErrTotalRequired)
	assert.Empty(t, store.saved)
}

func TestCreateOrderPushesRecentWindow(t *testing.T) {
	store := &mockStorage{}
	recent := dashboard.NewRecentBuffer(nil)
	op := orders.New(store, recent)

	first, err := op.CreateOrder(context.Background(), 1, nil, 1,
		decimal.NewNullDecimal(money("1")))
	require.NoError(t, err)

	second, err := op.CreateOrder(context.Background(), 1, nil, 1,
		decimal.NewNullDecimal(money("2")))
	require.NoError(t, err)

	items := recent.Items()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestDeleteOrderRemovesFromRecentWindow(t *testing.T) {
	store := &mockStorage{}
	recent := dashboard.NewRecentBuffer(nil)
	op := orders.New(store, recent)

	order, err := op.CreateOrder(context.Background(), 1, nil, 1,
		decimal.NewNullDecimal(money("1")))
	require.NoError(t, err)

	require.NoError(t, op.DeleteOrder(context.Background(), order.ID))

	assert.Empty(t, recent.Items())
	assert.Equal(t, []int64{order.ID}, store.deleted)
}

func TestDeleteOrderKeepsWindowOnStorageFailure(t *testing.T) {
	store := &mockStorage{deleteErr: storage.ErrOrdersNotFound}
	recent := dashboard.NewRecentBuffer([]models.Order{{ID: 1}})
	op := orders.New(store, recent)

	err := op.DeleteOrder(context.Background(), 1)

	assert.ErrorIs(t, err, storage.ErrOrdersNotFound)
	assert.Len(t, recent.Items(), 1)
}
