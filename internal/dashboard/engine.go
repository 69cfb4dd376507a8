// Package dashboard recomputes the aggregate view of the current entity
// collections. Compute and Stats are pure over their inputs; the only
// incrementally maintained piece is the recent-orders buffer.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"pricewatch/internal/models"
)

const topProductsLimit = 5

type Summary struct {
	Products     int    `json:"products"`
	Variants     int    `json:"variants"`
	Orders       int    `json:"orders"`
	TotalRevenue string `json:"total_revenue"`
}

type TopProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

type Snapshot struct {
	Summary           Summary                    `json:"summary"`
	OrderStatuses     map[models.OrderStatus]int `json:"order_statuses"`
	TopProducts       []TopProduct               `json:"top_products"`
	RecentOrders      []models.Order             `json:"recent_orders"`
	AverageOrderValue string                     `json:"average_order_value"`
	LastUpdated       time.Time                  `json:"last_updated"`
}

type Stats struct {
	ProductsByCategory map[string]int `json:"products_by_category"`
	VariantsByType     map[string]int `json:"variants_by_type"`
	LastUpdated        time.Time      `json:"last_updated"`
}

// Compute builds the dashboard snapshot from scratch. recent is the content
// of the recent-orders buffer, most recent first.
func Compute(products []models.Product, variants []models.Variant, orders []models.Order, recent []models.Order) Snapshot {
	statuses := make(map[models.OrderStatus]int, len(models.AllOrderStatuses))
	for _, s := range models.AllOrderStatuses {
		statuses[s] = 0
	}

	revenue := decimal.Zero
	for _, o := range orders {
		statuses[o.Status]++
		if o.Status != models.StatusCancelled {
			revenue = revenue.Add(o.TotalPrice)
		}
	}

	average := decimal.Zero
	if len(orders) > 0 {
		average = revenue.DivRound(decimal.NewFromInt(int64(len(orders))), 2)
	}

	if recent == nil {
		recent = []models.Order{}
	}

	return Snapshot{
		Summary: Summary{
			Products:     len(products),
			Variants:     len(variants),
			Orders:       len(orders),
			TotalRevenue: revenue.StringFixed(2),
		},
		OrderStatuses:     statuses,
		TopProducts:       topProducts(products, orders),
		RecentOrders:      recent,
		AverageOrderValue: average.StringFixed(2),
		LastUpdated:       time.Now().UTC(),
	}
}

// topProducts groups orders by product, sums quantities and keeps the five
// largest. The sort is stable, so equal quantities keep first-encountered
// order. Names are resolved at compute time; a product that no longer
// exists shows as "Unknown".
func topProducts(products []models.Product, orders []models.Order) []TopProduct {
	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	index := make(map[int64]int, len(orders))
	top := make([]TopProduct, 0)

	for _, o := range orders {
		i, ok := index[o.ProductID]
		if !ok {
			name, ok := names[o.ProductID]
			if !ok {
				name = "Unknown"
			}
			index[o.ProductID] = len(top)
			top = append(top, TopProduct{ProductID: o.ProductID, Name: name})
			i = index[o.ProductID]
		}
		top[i].Quantity += o.Quantity
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Quantity > top[j].Quantity
	})

	if len(top) > topProductsLimit {
		top = top[:topProductsLimit]
	}

	return top
}

// ComputeStats buckets products by category and variants by type.
// Independent counts, no cross-joins.
func ComputeStats(products []models.Product, variants []models.Variant) Stats {
	byCategory := make(map[string]int)
	for _, p := range products {
		byCategory[p.Category]++
	}

	byType := make(map[string]int)
	for _, v := range variants {
		byType[v.Type]++
	}

	return Stats{
		ProductsByCategory: byCategory,
		VariantsByType:     byType,
		LastUpdated:        time.Now().UTC(),
	}
}
