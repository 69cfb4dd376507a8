package orders

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"pricewatch/internal/dashboard"
	"pricewatch/internal/models"
)

// ErrTotalRequired is returned when no total price was supplied and none
// can be derived because the product has no observed price yet.
var ErrTotalRequired = errors.New("total price required: product has no observed price")

type PostgresStorage interface {
	SaveOrder(ctx context.Context, o models.Order) (models.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	ProductByID(ctx context.Context, productID int64) (models.Product, error)
	VariantByID(ctx context.Context, variantID int64) (models.Variant, error)
}

type OrderOperator struct {
	Postgres PostgresStorage
	Recent   *dashboard.RecentBuffer
}

func New(p PostgresStorage, recent *dashboard.RecentBuffer) *OrderOperator {
	return &OrderOperator{
		Postgres: p,
		Recent:   recent,
	}
}

// CreateOrder persists a new order in pending state and pushes it onto the
// recent-orders window. When no total is supplied it defaults to unit
// price times quantity; the unit price is the variant override when the
// order references a variant that has one, the product price otherwise.
func (o *OrderOperator) CreateOrder(
	ctx context.Context,
	productID int64,
	variantID *int64,
	quantity int,
	total decimal.NullDecimal,
) (models.Order, error) {
	totalPrice, err := o.resolveTotal(ctx, productID, variantID, quantity, total)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   quantity,
		TotalPrice: totalPrice,
		Status:     models.StatusPending,
	}

	saved, err := o.Postgres.SaveOrder(ctx, order)
	if err != nil {
		return models.Order{}, err
	}

	o.Recent.Push(saved)

	return saved, nil
}

// DeleteOrder removes the row and takes the order out of the recent
// window; the next snapshot recompute drops its revenue contribution.
func (o *OrderOperator) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := o.Postgres.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	o.Recent.Remove(orderID)

	return nil
}

func (o *OrderOperator) resolveTotal(
	ctx context.Context,
	productID int64,
	variantID *int64,
	quantity int,
	total decimal.NullDecimal,
) (decimal.Decimal, error) {
	if total.Valid {
		return total.Decimal, nil
	}

	unit := decimal.NullDecimal{}

	if variantID != nil {
		variant, err := o.Postgres.VariantByID(ctx, *variantID)
		if err != nil {
			return decimal.Zero, err
		}
		unit = variant.PriceOverride
	}

	if !unit.Valid {
		product, err := o.Postgres.ProductByID(ctx, productID)
		if err != nil {
			return decimal.Zero, err
		}
		unit = product.Price
	}

	if !unit.Valid {
		return decimal.Zero, ErrTotalRequired
	}

	return unit.Decimal.Mul(decimal.NewFromInt(int64(quantity))), nil
}
