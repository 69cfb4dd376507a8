package deleteOrder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "pricewatch/internal/lib/api/response"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
}

type OrdersRemover interface {
	DeleteOrder(ctx context.Context, orderID int64) error
}

func New(
	log *slog.Logger,
	orderOp OrdersRemover,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		orderID := parseOrderID(r)
		if orderID == -1 {
			log.Error("Invalid id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := orderOp.DeleteOrder(ctx, orderID); err != nil {
			if errors.Is(err, storage.ErrOrdersNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Order not found"))

				return
			}

			log.Error("Failed to delete order",
				sl.Err(err),
				slog.Int64("order_id", orderID),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Order deleted successfully", slog.Int64("order_id", orderID))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

func parseOrderID(r *http.Request) int64 {
	orderIDStr := r.URL.Query().Get("id")
	if orderIDStr == "" {
		return -1
	}

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil || orderID < 0 {
		return -1
	}

	return orderID
}
