package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pricewatch/internal/dashboard"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "dashboard:snapshot"

type RedisRepo struct {
	client      *redis.Client
	DefaultTTL  time.Duration
	SnapshotTTL time.Duration
}

func New(ctx context.Context, address string, db int, defaultTTL, snapshotTTL time.Duration) (*RedisRepo, error) {
	const op = "storage.redis.New"

	rdb := redis.NewClient(&redis.Options{
		Addr: address,
		DB:   db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisRepo{
		client:      rdb,
		DefaultTTL:  defaultTTL,
		SnapshotTTL: snapshotTTL,
	}, nil
}

func (r *RedisRepo) SaveProduct(ctx context.Context, product models.Product) error {
	const op = "storage.redis.SaveProduct"

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := productKey(product.ID)

	if err := r.client.Set(ctx, key, data, r.DefaultTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) Product(ctx context.Context, productID int64) (models.Product, error) {
	const op = "storage.redis.Product"

	var product models.Product

	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return product, storage.ErrProductsNotFound
		}
		return product, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(data, &product); err != nil {
		return product, fmt.Errorf("%s: %w", op, err)
	}

	return product, nil
}

// DeleteProduct drops the cached copy so a deleted product does not keep
// serving from cache until the TTL runs out.
func (r *RedisRepo) DeleteProduct(ctx context.Context, productID int64) error {
	const op = "storage.redis.DeleteProduct"

	if err := r.client.Del(ctx, productKey(productID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveSnapshot caches the computed dashboard under a short TTL. Staleness
// is bounded by the TTL only; writes never invalidate it.
func (r *RedisRepo) SaveSnapshot(ctx context.Context, snapshot dashboard.Snapshot) error {
	const op = "storage.redis.SaveSnapshot"

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.client.Set(ctx, snapshotKey, data, r.SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisRepo) Snapshot(ctx context.Context) (dashboard.Snapshot, error) {
	const op = "storage.redis.Snapshot"

	var snapshot dashboard.Snapshot

	data, err := r.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return snapshot, storage.ErrSnapshotNotFound
		}
		return snapshot, fmt.Errorf("%s: %w", op, err)
	}

	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("%s: %w", op, err)
	}

	return snapshot, nil
}

func (r *RedisRepo) Close() {
	r.client.Close()
}

func productKey(productID int64) string {
	return fmt.Sprintf("product:%d", productID)
}
