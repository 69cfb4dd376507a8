package postgres

import (
	"context"

	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// RecordObservation applies one scrape result in a single transaction:
// append the price to history, overwrite the product's current price and
// stock flag, and insert the notification if the detector produced one.
// The history append and the notification are one unit; a failure of any
// part surfaces as *storage.PersistenceError so the caller retries the
// whole observation.
//
// A null price appends nothing and keeps the stored price; only the stock
// flag and last_checked move.
func (r *PostgresRepo) RecordObservation(
	ctx context.Context,
	productID int64,
	price decimal.NullDecimal,
	inStock bool,
	n *models.Notification,
) error {
	const op = "storage.postgres.RecordObservation"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}
	defer rollback(ctx, tx)

	// Update the product row first: RowsAffected distinguishes "product is
	// gone" (drop the observation) from a real persistence failure (retry).
	var cmd pgconn.CommandTag

	if price.Valid {
		cmd, err = tx.Exec(ctx,
			`UPDATE products
			 SET price = $1, in_stock = $2, last_checked = now(), updated_at = now()
			 WHERE id = $3`,
			price.Decimal, inStock, productID,
		)
	} else {
		cmd, err = tx.Exec(ctx,
			`UPDATE products
			 SET in_stock = $1, last_checked = now(), updated_at = now()
			 WHERE id = $2`,
			inStock, productID,
		)
	}
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrProductsNotFound
	}

	if price.Valid {
		_, err = tx.Exec(ctx,
			`INSERT INTO price_history (product_id, price) VALUES ($1, $2)`,
			productID, price.Decimal,
		)
		if err != nil {
			return &storage.PersistenceError{Op: op, Err: err}
		}
	}

	if n != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO notifications (product_id, kind, message, threshold_price)
			 VALUES ($1, $2, $3, $4)`,
			n.ProductID, n.Kind, n.Message, n.ThresholdPrice,
		)
		if err != nil {
			return &storage.PersistenceError{Op: op, Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}

	return nil
}
