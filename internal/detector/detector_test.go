package detector_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/detector"
	"pricewatch/internal/models"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func noPrice() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		previous decimal.NullDecimal
		current  decimal.NullDecimal
		wantKind models.NotificationKind
		wantNil  bool
	}{
		{
			name:     "drop above threshold fires",
			previous: price("100"),
			current:  price("98.5"),
			wantKind: models.PriceDrop,
		},
		{
			name:     "increase below threshold is silent",
			previous: price("100"),
			current:  price("100.5"),
			wantNil:  true,
		},
		{
			name:     "exactly one percent is silent",
			previous: price("100"),
			current:  price("101"),
			wantNil:  true,
		},
		{
			name:     "just over one percent fires",
			previous: price("100"),
			current:  price("101.01"),
			wantKind: models.PriceIncrease,
		},
		{
			name:     "large increase fires",
			previous: price("10"),
			current:  price("15"),
			wantKind: models.PriceIncrease,
		},
		{
			name:     "zero reference price is silent",
			previous: price("0"),
			current:  price("50"),
			wantNil:  true,
		},
		{
			name:     "missing previous is silent",
			previous: noPrice(),
			current:  price("50"),
			wantNil:  true,
		},
		{
			name:     "missing current is silent",
			previous: price("50"),
			current:  noPrice(),
			wantNil:  true,
		},
		{
			name:     "both missing is silent",
			previous: noPrice(),
			current:  noPrice(),
			wantNil:  true,
		},
		{
			name:     "unchanged price is silent",
			previous: price("42"),
			current:  price("42"),
			wantNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Evaluate(tt.previous, tt.current, 7)

			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, int64(7), got.ProductID)
			assert.True(t, got.ThresholdPrice.Equal(tt.previous.Decimal))
			assert.False(t, got.Read)
		})
	}
}

func TestEvaluateMessageEmbedsPrices(t *testing.T) {
	got := detector.Evaluate(price("100"), price("98.5"), 1)

	require.NotNil(t, got)
	assert.Equal(t, "Price dropped from $100 to $98.5", got.Message)

	got = detector.Evaluate(price("10"), price("12"), 1)

	require.NotNil(t, got)
	assert.Equal(t, "Price increased from $10 to $12", got.Message)
}

// The threshold is relative: a one-cent move on a cheap item can be a
// signal while a one-dollar move on an expensive one is not.
func TestEvaluateRelativeThreshold(t *testing.T) {
	got := detector.Evaluate(price("0.50"), price("0.48"), 1)
	require.NotNil(t, got)
	assert.Equal(t, models.PriceDrop, got.Kind)

	got = detector.Evaluate(price("1000"), price("999"), 1)
	assert.Nil(t, got)
}
