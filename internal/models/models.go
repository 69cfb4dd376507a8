package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64               `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	URL         string              `json:"url" db:"url"`
	Category    string              `json:"category" db:"category"`
	Description string              `json:"description" db:"description"`
	Price       decimal.NullDecimal `json:"price" db:"price"`
	InStock     bool                `json:"in_stock" db:"in_stock"`
	LastChecked time.Time           `json:"last_checked" db:"last_checked"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" db:"updated_at"`
}

// PricePoint is one entry of a product's append-only price history.
// Insertion order is chronological order.
type PricePoint struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  int64           `json:"product_id" db:"product_id"`
	Price      decimal.Decimal `json:"price" db:"price"`
	ObservedAt time.Time       `json:"observed_at" db:"observed_at"`
}

type Variant struct {
	ID            int64               `json:"id" db:"id"`
	ProductID     int64               `json:"product_id" db:"product_id"`
	Type          string              `json:"type" db:"type"`
	Value         string              `json:"value" db:"value"`
	PriceOverride decimal.NullDecimal `json:"price_override" db:"price_override"`
	Stock         int                 `json:"stock" db:"stock"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// AllOrderStatuses is the closed status set, in lifecycle order.
var AllOrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  int64           `json:"product_id" db:"product_id"`
	VariantID  *int64          `json:"variant_id" db:"variant_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	Status     OrderStatus     `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

type NotificationKind string

const (
	PriceDrop     NotificationKind = "price_drop"
	PriceIncrease NotificationKind = "price_increase"
	// BackInStock is part of the taxonomy but is only produced by a
	// stock-level observer, which does not exist yet.
	BackInStock NotificationKind = "back_in_stock"
)

type Notification struct {
	ID             int64            `json:"id" db:"id"`
	ProductID      int64            `json:"product_id" db:"product_id"`
	Kind           NotificationKind `json:"kind" db:"kind"`
	Message        string           `json:"message" db:"message"`
	ThresholdPrice decimal.Decimal  `json:"threshold_price" db:"threshold_price"`
	Read           bool             `json:"read" db:"read"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

// ScrapeJob is published to the jobs queue for the parsing service.
type ScrapeJob struct {
	ID  int64  `json:"id" db:"id"`
	URL string `json:"url" db:"url"`
}

// ScrapeResult is what the parsing service publishes back. Price is null
// when extraction failed or the page carried no price.
type ScrapeResult struct {
	ID      int64               `json:"id"`
	Price   decimal.NullDecimal `json:"price"`
	InStock bool                `json:"in_stock"`
}
