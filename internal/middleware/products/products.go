package products

import (
	"context"
	"errors"

	"pricewatch/internal/models"
	"pricewatch/internal/storage"
)

type RedisStorage interface {
	SaveProduct(ctx context.Context, product models.Product) error
	Product(ctx context.Context, productID int64) (models.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}

type PostgresStorage interface {
	SaveProduct(ctx context.Context, name, url, category, description string) (int64, error)
	ProductByID(ctx context.Context, productID int64) (models.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
}

type RabbitMQ interface {
	PublishJSON(ctx context.Context, msg any) error
}

type ProductOperator struct {
	Redis    RedisStorage
	Postgres PostgresStorage
	Rabbitmq RabbitMQ
}

func New(p PostgresStorage, r RedisStorage, rabbit RabbitMQ) *ProductOperator {
	return &ProductOperator{
		Redis:    r,
		Postgres: p,
		Rabbitmq: rabbit,
	}
}

// SaveProduct persists the product and queues an immediate scrape so the
// first price observation does not wait for the next scheduler pass.
func (p *ProductOperator) SaveProduct(ctx context.Context, name, url, category, description string) (int64, error) {
	productID, err := p.Postgres.SaveProduct(ctx, name, url, category, description)
	if err != nil {
		return 0, err
	}

	job := models.ScrapeJob{
		ID:  productID,
		URL: url,
	}

	if err := p.Rabbitmq.PublishJSON(ctx, job); err != nil {
		return 0, err
	}

	return productID, nil
}

// ProductByID reads through the cache: Redis first, Postgres on miss, and
// the cache is repopulated best-effort.
func (p *ProductOperator) ProductByID(ctx context.Context, productID int64) (models.Product, error) {
	product, err := p.Redis.Product(ctx, productID)
	switch {
	case err == nil:
		return product, nil

	case !errors.Is(err, storage.ErrProductsNotFound):
		return models.Product{}, err
	}

	product, err = p.Postgres.ProductByID(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}

	_ = p.Redis.SaveProduct(ctx, product)

	return product, nil
}

// DeleteProduct removes the row and drops the cached copy. Orders are left
// in place; they do not cascade.
func (p *ProductOperator) DeleteProduct(ctx context.Context, productID int64) error {
	if err := p.Postgres.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	_ = p.Redis.DeleteProduct(ctx, productID)

	return nil
}
