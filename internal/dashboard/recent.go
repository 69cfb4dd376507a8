package dashboard

import (
	"sync"

	"pricewatch/internal/models"
)

const recentCapacity = 10

// RecentBuffer is the bounded most-recent-first window of created orders.
// It is maintained incrementally, not recomputed: Push on order creation,
// Remove on order deletion. The mutex keeps updates atomic with respect to
// concurrent snapshot reads.
type RecentBuffer struct {
	mu     sync.Mutex
	orders []models.Order
}

// NewRecentBuffer seeds the buffer, most recent first. Anything beyond
// capacity is dropped.
func NewRecentBuffer(seed []models.Order) *RecentBuffer {
	b := &RecentBuffer{orders: make([]models.Order, 0, recentCapacity)}
	for _, o := range seed {
		if len(b.orders) == recentCapacity {
			break
		}
		b.orders = append(b.orders, o)
	}
	return b
}

// Push prepends a newly created order, evicting the oldest beyond capacity.
func (b *RecentBuffer) Push(o models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders = append([]models.Order{o}, b.orders...)
	if len(b.orders) > recentCapacity {
		b.orders = b.orders[:recentCapacity]
	}
}

// Remove drops a deleted order from the window, if present.
func (b *RecentBuffer) Remove(orderID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, o := range b.orders {
		if o.ID == orderID {
			b.orders = append(b.orders[:i], b.orders[i+1:]...)
			return
		}
	}
}

// Items returns a copy of the window, most recent first.
func (b *RecentBuffer) Items() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]models.Order, len(b.orders))
	copy(out, b.orders)
	return out
}
