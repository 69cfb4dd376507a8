package updateOrderStatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "pricewatch/internal/lib/api/response"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
)

type Request struct {
	ID     int64  `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type Response struct {
	resp.Response
}

type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
}

func New(
	log *slog.Logger,
	statusUpdater StatusUpdater,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.update_status.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("Invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		err = statusUpdater.UpdateOrderStatus(ctx, req.ID, models.OrderStatus(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrOrdersNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Order not found"))

			case errors.Is(err, storage.ErrTerminalStatus):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error("Order is in a terminal state"))

			default:
				log.Error("Failed to update order status",
					sl.Err(err),
					slog.Int64("order_id", req.ID),
				)

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))
			}

			return
		}

		log.Info("Order status updated",
			slog.Int64("order_id", req.ID),
			slog.String("status", req.Status),
		)

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}
