package postgres

import (
	"context"
	"fmt"

	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func (r *PostgresRepo) SaveVariant(ctx context.Context, v models.Variant) (int64, error) {
	const op = "storage.postgres.SaveVariant"

	const query = `
		INSERT INTO variants (product_id, type, value, price_override, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64

	err := r.pool.QueryRow(ctx, query, v.ProductID, v.Type, v.Value, v.PriceOverride, v.Stock).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == storage.ForeignKeyViolation {
			return 0, storage.ErrProductsNotFound
		}

		return 0, fmt.Errorf("%s: failed to save variant: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) VariantsByProduct(ctx context.Context, productID int64) ([]models.Variant, error) {
	const op = "storage.postgres.VariantsByProduct"

	const query = `
		SELECT id, product_id, type, value, price_override, stock, created_at, updated_at
		FROM variants
		WHERE product_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	variants, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Variant])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return variants, nil
}

func (r *PostgresRepo) VariantByID(ctx context.Context, variantID int64) (models.Variant, error) {
	const op = "storage.postgres.VariantByID"

	const query = `
		SELECT id, product_id, type, value, price_override, stock, created_at, updated_at
		FROM variants
		WHERE id = $1
	`

	rows, err := r.pool.Query(ctx, query, variantID)
	if err != nil {
		return models.Variant{}, fmt.Errorf("%s: query: %w", op, err)
	}

	variant, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Variant])
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.Variant{}, storage.ErrVariantsNotFound
		}

		return models.Variant{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return variant, nil
}

func (r *PostgresRepo) AllVariants(ctx context.Context) ([]models.Variant, error) {
	const op = "storage.postgres.AllVariants"

	const query = `
		SELECT id, product_id, type, value, price_override, stock, created_at, updated_at
		FROM variants
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	variants, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Variant])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return variants, nil
}

// UpdateVariant overwrites stock and price override. Stock is checked by
// the table constraint as well; the handler validates before we get here.
func (r *PostgresRepo) UpdateVariant(ctx context.Context, variantID int64, stock int, priceOverride decimal.NullDecimal) error {
	const op = "storage.postgres.UpdateVariant"

	const query = `
		UPDATE variants
		SET stock = $1,
			price_override = $2,
			updated_at = now()
		WHERE id = $3
	`

	cmd, err := r.pool.Exec(ctx, query, stock, priceOverride, variantID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrVariantsNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteVariant(ctx context.Context, variantID int64) error {
	const op = "storage.postgres.DeleteVariant"

	const query = `DELETE FROM variants WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, variantID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrVariantsNotFound
	}

	return nil
}
