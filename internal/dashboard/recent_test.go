package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/dashboard"
	"pricewatch/internal/models"
)

func TestRecentBufferCapacityAndOrder(t *testing.T) {
	buffer := dashboard.NewRecentBuffer(nil)

	for i := int64(1); i <= 15; i++ {
		buffer.Push(models.Order{ID: i})
	}

	items := buffer.Items()

	require.Len(t, items, 10)
	// Most recent first: 15 down to 6.
	for i, o := range items {
		assert.Equal(t, int64(15-i), o.ID)
	}
}

func TestRecentBufferRemove(t *testing.T) {
	buffer := dashboard.NewRecentBuffer(nil)

	for i := int64(1); i <= 3; i++ {
		buffer.Push(models.Order{ID: i})
	}

	buffer.Remove(2)

	items := buffer.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)
	assert.Equal(t, int64(1), items[1].ID)

	// Removing an unknown id is a no-op.
	buffer.Remove(99)
	assert.Len(t, buffer.Items(), 2)
}

func TestRecentBufferSeedTruncated(t *testing.T) {
	var seed []models.Order
	for i := int64(20); i >= 1; i-- {
		seed = append(seed, models.Order{ID: i})
	}

	buffer := dashboard.NewRecentBuffer(seed)

	items := buffer.Items()
	require.Len(t, items, 10)
	assert.Equal(t, int64(20), items[0].ID)
	assert.Equal(t, int64(11), items[9].ID)
}

func TestRecentBufferItemsIsACopy(t *testing.T) {
	buffer := dashboard.NewRecentBuffer(nil)
	buffer.Push(models.Order{ID: 1})

	items := buffer.Items()
	items[0].ID = 42

	assert.Equal(t, int64(1), buffer.Items()[0].ID)
}
