// Package detector decides whether an observed price is a notifiable change
// against the stored reference price.
package detector

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pricewatch/internal/models"
)

// A change has to exceed one percent of the reference price to count as a
// signal, strictly. Everything at or below the threshold is noise.
var (
	threshold = decimal.NewFromInt(1)
	hundred   = decimal.NewFromInt(100)
)

// Evaluate compares a newly observed price against the stored one and
// returns a notification for the change, or nil when there is no signal.
//
// No signal cases: either price is absent, or the reference price is zero
// (percent change against zero is undefined). The caller is still expected
// to append the observation to price history when the current price is
// present.
func Evaluate(previous, current decimal.NullDecimal, productID int64) *models.Notification {
	if !previous.Valid || !current.Valid {
		return nil
	}

	prev := previous.Decimal
	curr := current.Decimal

	if prev.IsZero() {
		return nil
	}

	delta := curr.Sub(prev)
	percent := delta.Abs().Div(prev).Mul(hundred)
	if percent.LessThanOrEqual(threshold) {
		return nil
	}

	kind := models.PriceIncrease
	verb := "increased"
	if delta.IsNegative() {
		kind = models.PriceDrop
		verb = "dropped"
	}

	return &models.Notification{
		ProductID:      productID,
		Kind:           kind,
		Message:        fmt.Sprintf("Price %s from $%s to $%s", verb, prev, curr),
		ThresholdPrice: prev,
		CreatedAt:      time.Now().UTC(),
	}
}
