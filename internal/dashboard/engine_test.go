package dashboard_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/dashboard"
	"pricewatch/internal/models"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeWorkedExample(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Alpha"},
		{ID: 2, Name: "Beta"},
	}
	orders := []models.Order{
		{ID: 10, ProductID: 1, Quantity: 2, TotalPrice: money("20"), Status: models.StatusPending},
		{ID: 11, ProductID: 2, Quantity: 1, TotalPrice: money("5"), Status: models.StatusShipped},
	}

	snapshot := dashboard.Compute(products, nil, orders, nil)

	assert.Equal(t, 2, snapshot.Summary.Products)
	assert.Equal(t, 0, snapshot.Summary.Variants)
	assert.Equal(t, 2, snapshot.Summary.Orders)
	assert.Equal(t, "25.00", snapshot.Summary.TotalRevenue)
	assert.Equal(t, "12.50", snapshot.AverageOrderValue)

	assert.Equal(t, map[models.OrderStatus]int{
		models.StatusPending:    1,
		models.StatusProcessing: 0,
		models.StatusShipped:    1,
		models.StatusDelivered:  0,
		models.StatusCancelled:  0,
	}, snapshot.OrderStatuses)

	require.Len(t, snapshot.TopProducts, 2)
	assert.Equal(t, dashboard.TopProduct{ProductID: 1, Name: "Alpha", Quantity: 2}, snapshot.TopProducts[0])
	assert.Equal(t, dashboard.TopProduct{ProductID: 2, Name: "Beta", Quantity: 1}, snapshot.TopProducts[1])

	assert.False(t, snapshot.LastUpdated.IsZero())
}

func TestComputeEmpty(t *testing.T) {
	snapshot := dashboard.Compute(nil, nil, nil, nil)

	assert.Equal(t, "0.00", snapshot.Summary.TotalRevenue)
	assert.Equal(t, "0.00", snapshot.AverageOrderValue)
	assert.Empty(t, snapshot.TopProducts)
	assert.NotNil(t, snapshot.RecentOrders)
	assert.Empty(t, snapshot.RecentOrders)

	total := 0
	for _, n := range snapshot.OrderStatuses {
		total += n
	}
	assert.Equal(t, 0, total)
	assert.Len(t, snapshot.OrderStatuses, 5)
}

func TestComputeStatusCountsSumToOrderCount(t *testing.T) {
	orders := []models.Order{
		{ID: 1, ProductID: 1, Quantity: 1, TotalPrice: money("1"), Status: models.StatusPending},
		{ID: 2, ProductID: 1, Quantity: 1, TotalPrice: money("1"), Status: models.StatusDelivered},
		{ID: 3, ProductID: 1, Quantity: 1, TotalPrice: money("1"), Status: models.StatusCancelled},
		{ID: 4, ProductID: 1, Quantity: 1, TotalPrice: money("1"), Status: models.StatusCancelled},
	}

	snapshot := dashboard.Compute(nil, nil, orders, nil)

	total := 0
	for _, n := range snapshot.OrderStatuses {
		total += n
	}
	assert.Equal(t, snapshot.Summary.Orders, total)
}

func TestComputeCancelledOrdersExcludedFromRevenue(t *testing.T) {
	orders := []models.Order{
		{ID: 1, ProductID: 1, Quantity: 1, TotalPrice: money("100"), Status: models.StatusDelivered},
		{ID: 2, ProductID: 1, Quantity: 1, TotalPrice: money("40"), Status: models.StatusCancelled},
	}

	snapshot := dashboard.Compute(nil, nil, orders, nil)

	assert.Equal(t, "100.00", snapshot.Summary.TotalRevenue)
	// The cancelled order still counts as an order.
	assert.Equal(t, "50.00", snapshot.AverageOrderValue)
}

func TestComputeTopProductsTruncatedAndSorted(t *testing.T) {
	var products []models.Product
	var orders []models.Order

	for i := int64(1); i <= 7; i++ {
		products = append(products, models.Product{ID: i, Name: "P"})
		orders = append(orders, models.Order{
			ID:         i,
			ProductID:  i,
			Quantity:   int(i),
			TotalPrice: money("1"),
			Status:     models.StatusPending,
		})
	}

	snapshot := dashboard.Compute(products, nil, orders, nil)

	require.Len(t, snapshot.TopProducts, 5)
	for i := 1; i < len(snapshot.TopProducts); i++ {
		assert.GreaterOrEqual(t,
			snapshot.TopProducts[i-1].Quantity,
			snapshot.TopProducts[i].Quantity,
		)
	}
	assert.Equal(t, int64(7), snapshot.TopProducts[0].ProductID)
}

func TestComputeTopProductsTiesKeepFirstEncountered(t *testing.T) {
	orders := []models.Order{
		{ID: 1, ProductID: 42, Quantity: 3, TotalPrice: money("1"), Status: models.StatusPending},
		{ID: 2, ProductID: 43, Quantity: 3, TotalPrice: money("1"), Status: models.StatusPending},
	}

	snapshot := dashboard.Compute(nil, nil, orders, nil)

	require.Len(t, snapshot.TopProducts, 2)
	assert.Equal(t, int64(42), snapshot.TopProducts[0].ProductID)
	assert.Equal(t, int64(43), snapshot.TopProducts[1].ProductID)
}

func TestComputeMissingProductResolvesToUnknown(t *testing.T) {
	orders := []models.Order{
		{ID: 1, ProductID: 99, Quantity: 1, TotalPrice: money("10"), Status: models.StatusPending},
	}

	snapshot := dashboard.Compute(nil, nil, orders, nil)

	require.Len(t, snapshot.TopProducts, 1)
	assert.Equal(t, "Unknown", snapshot.TopProducts[0].Name)
}

func TestComputeQuantitiesAccumulatePerProduct(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "Alpha"}}
	orders := []models.Order{
		{ID: 1, ProductID: 1, Quantity: 2, TotalPrice: money("2"), Status: models.StatusPending},
		{ID: 2, ProductID: 1, Quantity: 5, TotalPrice: money("5"), Status: models.StatusShipped},
	}

	snapshot := dashboard.Compute(products, nil, orders, nil)

	require.Len(t, snapshot.TopProducts, 1)
	assert.Equal(t, 7, snapshot.TopProducts[0].Quantity)
}

func TestComputeStats(t *testing.T) {
	products := []models.Product{
		{ID: 1, Category: "shoes"},
		{ID: 2, Category: "shoes"},
		{ID: 3, Category: "hats"},
	}
	variants := []models.Variant{
		{ID: 1, ProductID: 1, Type: "size"},
		{ID: 2, ProductID: 1, Type: "size"},
		{ID: 3, ProductID: 3, Type: "color"},
	}

	stats := dashboard.ComputeStats(products, variants)

	assert.Equal(t, map[string]int{"shoes": 2, "hats": 1}, stats.ProductsByCategory)
	assert.Equal(t, map[string]int{"size": 2, "color": 1}, stats.VariantsByType)
	assert.False(t, stats.LastUpdated.IsZero())
}
