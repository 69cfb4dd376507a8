package postgres

import (
	"context"
	"fmt"

	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/jackc/pgx/v5"
)

// Notifications returns one page, newest first, plus the total count for
// the same filter. unreadOnly narrows to notifications not yet read.
func (r *PostgresRepo) Notifications(ctx context.Context, unreadOnly bool, limit, offset int64) ([]models.Notification, int64, error) {
	const op = "storage.postgres.Notifications"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer rollback(ctx, tx)

	const query = `
		SELECT id, product_id, kind, message, threshold_price, read, created_at
		FROM notifications
		WHERE (NOT $1 OR read = false)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := tx.Query(ctx, query, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}

	notifications, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Notification])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: collect: %w", op, err)
	}

	var total int64
	const countQuery = `SELECT COUNT(*) FROM notifications WHERE (NOT $1 OR read = false)`
	if err := tx.QueryRow(ctx, countQuery, unreadOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return notifications, total, nil
}

// MarkNotificationRead flips the read flag. The read flag is the only
// mutable part of a notification.
func (r *PostgresRepo) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	const op = "storage.postgres.MarkNotificationRead"

	const query = `UPDATE notifications SET read = true WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, notificationID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrNotificationsNotFound
	}

	return nil
}
