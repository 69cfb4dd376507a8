// Package observer consumes scrape results from the queue and turns each
// one into a price observation: history append, current-price overwrite
// and, when the change is significant, a notification.
package observer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"pricewatch/internal/detector"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"
)

type Storage interface {
	ProductByID(ctx context.Context, productID int64) (models.Product, error)
	RecordObservation(ctx context.Context, productID int64, price decimal.NullDecimal, inStock bool, n *models.Notification) error
}

type Consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, body []byte) error) error
}

type Observer struct {
	log     *slog.Logger
	storage Storage
}

func New(log *slog.Logger, storage Storage) *Observer {
	return &Observer{
		log:     log,
		storage: storage,
	}
}

func (o *Observer) Run(ctx context.Context, consumer Consumer) error {
	return consumer.Consume(ctx, o.handleMessage)
}

func (o *Observer) handleMessage(ctx context.Context, body []byte) error {
	const op = "observer.handleMessage"

	var msg models.ScrapeResult

	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%s: invalid message format: %w", op, err)
	}

	product, err := o.storage.ProductByID(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrProductsNotFound) {
			// Product was deleted between scrape and result. Drop it.
			o.log.Warn("observation for unknown product",
				slog.String("op", op),
				slog.Int64("product_id", msg.ID),
			)
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	notification := detector.Evaluate(product.Price, msg.Price, product.ID)

	err = o.storage.RecordObservation(ctx, product.ID, msg.Price, msg.InStock, notification)
	if err != nil {
		if errors.Is(err, storage.ErrProductsNotFound) {
			return nil
		}

		// *storage.PersistenceError among others: nack so the observation
		// and the notification are retried as one unit.
		o.log.Error("failed to record observation",
			slog.String("op", op),
			slog.Int64("product_id", product.ID),
			sl.Err(err),
		)

		return fmt.Errorf("%s: %w", op, err)
	}

	if notification != nil {
		o.log.Info("price change detected",
			slog.Int64("product_id", product.ID),
			slog.String("kind", string(notification.Kind)),
			slog.String("message", notification.Message),
		)
	}

	return nil
}
