package dashboard

import (
	"context"
	"errors"

	"pricewatch/internal/dashboard"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"
)

type PostgresStorage interface {
	AllProducts(ctx context.Context) ([]models.Product, error)
	AllVariants(ctx context.Context) ([]models.Variant, error)
	AllOrders(ctx context.Context) ([]models.Order, error)
}

type SnapshotCache interface {
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot dashboard.Snapshot) error
}

type DashboardOperator struct {
	Postgres PostgresStorage
	Cache    SnapshotCache
	Recent   *dashboard.RecentBuffer
}

func New(p PostgresStorage, cache SnapshotCache, recent *dashboard.RecentBuffer) *DashboardOperator {
	return &DashboardOperator{
		Postgres: p,
		Cache:    cache,
		Recent:   recent,
	}
}

// Snapshot serves the cached dashboard when fresh enough, otherwise
// recomputes from the current collections and repopulates the cache
// best-effort.
func (d *DashboardOperator) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	snapshot, err := d.Cache.Snapshot(ctx)
	switch {
	case err == nil:
		return snapshot, nil

	case !errors.Is(err, storage.ErrSnapshotNotFound):
		return dashboard.Snapshot{}, err
	}

	products, err := d.Postgres.AllProducts(ctx)
	if err != nil {
		return dashboard.Snapshot{}, err
	}

	variants, err := d.Postgres.AllVariants(ctx)
	if err != nil {
		return dashboard.Snapshot{}, err
	}

	orders, err := d.Postgres.AllOrders(ctx)
	if err != nil {
		return dashboard.Snapshot{}, err
	}

	snapshot = dashboard.Compute(products, variants, orders, d.Recent.Items())

	_ = d.Cache.SaveSnapshot(ctx, snapshot)

	return snapshot, nil
}

// Stats is recomputed on every call; it is cheap enough not to cache.
func (d *DashboardOperator) Stats(ctx context.Context) (dashboard.Stats, error) {
	products, err := d.Postgres.AllProducts(ctx)
	if err != nil {
		return dashboard.Stats{}, err
	}

	variants, err := d.Postgres.AllVariants(ctx)
	if err != nil {
		return dashboard.Stats{}, err
	}

	return dashboard.ComputeStats(products, variants), nil
}
