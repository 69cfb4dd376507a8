package postgres

import (
	"context"
	"errors"
	"fmt"

	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/jackc/pgx/v5"
)

func (r *PostgresRepo) SaveOrder(ctx context.Context, o models.Order) (models.Order, error) {
	const op = "storage.postgres.SaveOrder"

	const query = `
		INSERT INTO orders (product_id, variant_id, quantity, total_price, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, product_id, variant_id, quantity, total_price, status, created_at, updated_at
	`

	rows, err := r.pool.Query(ctx, query, o.ProductID, o.VariantID, o.Quantity, o.TotalPrice, o.Status)
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: query: %w", op, err)
	}

	saved, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Order])
	if err != nil {
		return models.Order{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return saved, nil
}

// Orders returns one page of orders plus the total count for the same
// filter. A nil status means "any status".
func (r *PostgresRepo) Orders(ctx context.Context, status *models.OrderStatus, limit, offset int64) ([]models.Order, int64, error) {
	const op = "storage.postgres.Orders"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer rollback(ctx, tx)

	const query = `
		SELECT id, product_id, variant_id, quantity, total_price, status, created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := tx.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Order])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: collect: %w", op, err)
	}

	var total int64
	const countQuery = `SELECT COUNT(*) FROM orders WHERE ($1::text IS NULL OR status = $1)`
	if err := tx.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return orders, total, nil
}

func (r *PostgresRepo) AllOrders(ctx context.Context) ([]models.Order, error) {
	const op = "storage.postgres.AllOrders"

	const query = `
		SELECT id, product_id, variant_id, quantity, total_price, status, created_at, updated_at
		FROM orders
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Order])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return orders, nil
}

// RecentOrders seeds the recent-orders buffer at startup, most recent first.
func (r *PostgresRepo) RecentOrders(ctx context.Context, limit int64) ([]models.Order, error) {
	const op = "storage.postgres.RecentOrders"

	const query = `
		SELECT id, product_id, variant_id, quantity, total_price, status, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Order])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return orders, nil
}

// UpdateOrderStatus moves an order to a new status. Orders in a terminal
// state (delivered, cancelled) are locked; the row is read FOR UPDATE so a
// concurrent transition cannot slip past the check.
func (r *PostgresRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	const op = "storage.postgres.UpdateOrderStatus"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer rollback(ctx, tx)

	var current models.OrderStatus

	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrOrdersNotFound
		}

		return fmt.Errorf("%s: select: %w", op, err)
	}

	if current.Terminal() && current != status {
		return storage.ErrTerminalStatus
	}

	_, err = tx.Exec(ctx, `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, status, orderID)
	if err != nil {
		return fmt.Errorf("%s: update: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) DeleteOrder(ctx context.Context, orderID int64) error {
	const op = "storage.postgres.DeleteOrder"

	const query = `DELETE FROM orders WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrOrdersNotFound
	}

	return nil
}
