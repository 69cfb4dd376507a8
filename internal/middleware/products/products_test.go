package products_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/internal/middleware/products"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"
)

type mockPostgres struct {
	products map[int64]models.Product

	nextID  int64
	saveErr error

	deleted []int64
}

func (m *mockPostgres) SaveProduct(_ context.Context, name, url, category, description string) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.nextID++
	return m.nextID, nil
}

func (m *mockPostgres) ProductByID(_ context.Context, productID int64) (models.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return models.Product{}, storage.ErrProductsNotFound
	}
	return p, nil
}

func (m *mockPostgres) DeleteProduct(_ context.Context, productID int64) error {
	if _, ok := m.products[productID]; !ok {
		return storage.ErrProductsNotFound
	}
	delete(m.products, productID)
	m.deleted = append(m.deleted, productID)
	return nil
}

type mockRedis struct {
	cache map[int64]models.Product

	saveCalls   int
	deleteCalls int
}

func (m *mockRedis) SaveProduct(_ context.Context, product models.Product) error {
	m.saveCalls++
	m.cache[product.ID] = product
	return nil
}

func (m *mockRedis) Product(_ context.Context, productID int64) (models.Product, error) {
	p, ok := m.cache[productID]
	if !ok {
		return models.Product{}, storage.ErrProductsNotFound
	}
	return p, nil
}

func (m *mockRedis) DeleteProduct(_ context.Context, productID int64) error {
	m.deleteCalls++
	delete(m.cache, productID)
	return nil
}

type mockProducer struct {
	published []any
	err       error
}

func (m *mockProducer) PublishJSON(_ context.Context, msg any) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

func TestSaveProductPublishesScrapeJob(t *testing.T) {
	pg := &mockPostgres{}
	producer := &mockProducer{}
	op := products.New(pg, &mockRedis{cache: map[int64]models.Product{}}, producer)

	id, err := op.SaveProduct(context.Background(), "Widget", "https://shop.test/widget", "tools", "")

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, producer.published, 1)
	job, ok := producer.published[0].(models.ScrapeJob)
	require.True(t, ok)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, "https://shop.test/widget", job.URL)
}

func TestSaveProductPublishFailureSurfaces(t *testing.T) {
	pg := &mockPostgres{}
	producer := &mockProducer{err: errors.New("queue down")}
	op := products.New(pg, &mockRedis{cache: map[int64]models.Product{}}, producer)

	_, err := op.SaveProduct(context.Background(), "Widget", "https://shop.test/widget", "", "")

	assert.Error(t, err)
}

func TestProductByIDCacheMissFallsThrough(t *testing.T) {
	pg := &mockPostgres{products: map[int64]models.Product{
		1: {ID: 1, Name: "Widget"},
	}}
	rd := &mockRedis{cache: map[int64]models.Product{}}
	op := products.New(pg, rd, &mockProducer{})

	product, err := op.ProductByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)
	// Cache repopulated on the way out.
	assert.Equal(t, 1, rd.saveCalls)

	// Second read is served from cache.
	product, err = op.ProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 1, rd.saveCalls)
}

func TestProductByIDUnknown(t *testing.T) {
	pg := &mockPostgres{products: map[int64]models.Product{}}
	op := products.New(pg, &mockRedis{cache: map[int64]models.Product{}}, &mockProducer{})

	_, err := op.ProductByID(context.Background(), 9)

	assert.ErrorIs(t, err, storage.ErrProductsNotFound)
}

func TestDeleteProductDropsCache(t *testing.T) {
	pg := &mockPostgres{products: map[int64]models.Product{
		1: {ID: 1},
	}}
	rd := &mockRedis{cache: map[int64]models.Product{
		1: {ID: 1},
	}}
	op := products.New(pg, rd, &mockProducer{})

	require.NoError(t, op.DeleteProduct(context.Background(), 1))

	assert.Equal(t, []int64{1}, pg.deleted)
	assert.Equal(t, 1, rd.deleteCalls)
	assert.Empty(t, rd.cache)
}
