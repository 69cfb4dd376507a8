package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricewatch/internal/config"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: ping failed: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

// ProductFilter narrows Products. Zero values mean "no constraint".
type ProductFilter struct {
	Category string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
}

func (r *PostgresRepo) SaveProduct(ctx context.Context, name, url, category, description string) (int64, error) {
	const op = "storage.postgres.SaveProduct"

	const query = `
		INSERT INTO products (name, url, category, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64

	err := r.pool.QueryRow(ctx, query, name, url, category, description).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == storage.UniqueViolation {
			return 0, storage.ErrDuplicateProductURL
		}

		return 0, fmt.Errorf("%s: failed to save product: %w", op, err)
	}

	return id, nil
}

// Products returns one page of products plus the total count for the same
// filter, inside a single read-only transaction.
func (r *PostgresRepo) Products(ctx context.Context, filter ProductFilter, limit, offset int64) ([]models.Product, int64, error) {
	const op = "storage.postgres.Products"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer rollback(ctx, tx)

	where := ` WHERE ($1 = '' OR category = $1)
	             AND ($2::numeric IS NULL OR price >= $2)
	             AND ($3::numeric IS NULL OR price <= $3)`
	args := []any{filter.Category, filter.MinPrice, filter.MaxPrice}

	query := `
		SELECT id, name, url, category, description, price, in_stock, last_checked, created_at, updated_at
		FROM products` + where + `
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := tx.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: collect: %w", op, err)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return products, total, nil
}

func (r *PostgresRepo) AllProducts(ctx context.Context) ([]models.Product, error) {
	const op = "storage.postgres.AllProducts"

	const query = `
		SELECT id, name, url, category, description, price, in_stock, last_checked, created_at, updated_at
		FROM products
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return products, nil
}

func (r *PostgresRepo) ProductByID(ctx context.Context, productID int64) (models.Product, error) {
	const op = "storage.postgres.ProductByID"

	const query = `
		SELECT id, name, url, category, description, price, in_stock, last_checked, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: query: %w", op, err)
	}

	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrProductsNotFound
		}

		return models.Product{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return product, nil
}

// PriceHistory returns the append-only history of a product, oldest first.
func (r *PostgresRepo) PriceHistory(ctx context.Context, productID int64) ([]models.PricePoint, error) {
	const op = "storage.postgres.PriceHistory"

	const query = `
		SELECT id, product_id, price, observed_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	points, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PricePoint])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return points, nil
}

// ScrapeTargets lists every product id and url for the scheduler.
func (r *PostgresRepo) ScrapeTargets(ctx context.Context) ([]models.ScrapeJob, error) {
	const op = "storage.postgres.ScrapeTargets"

	const query = `SELECT id, url FROM products ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	targets, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ScrapeJob])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return targets, nil
}

// DeleteProduct removes the product; variants and price history cascade.
// Orders keep their product_id on purpose; aggregation resolves them to
// "Unknown".
func (r *PostgresRepo) DeleteProduct(ctx context.Context, productID int64) error {
	const op = "storage.postgres.DeleteProduct"

	const query = `DELETE FROM products WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrProductsNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		fmt.Printf("failed to rollback transaction: %v\n", err)
	}
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
