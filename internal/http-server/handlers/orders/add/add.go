package addOrder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "pricewatch/internal/lib/api/response"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/middleware/orders"
	"pricewatch/internal/models"
	"pricewatch/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Request struct {
	ProductID  int64               `json:"product_id" validate:"required"`
	VariantID  *int64              `json:"variant_id"`
	Quantity   int                 `json:"quantity" validate:"required,gt=0"`
	TotalPrice decimal.NullDecimal `json:"total_price"`
}

type Response struct {
	resp.Response
	Order models.Order `json:"order"`
}

func New(
	log *slog.Logger,
	orderOp *orders.OrderOperator,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.add.New"

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

		order, err := orderOp.CreateOrder(ctx, req.ProductID, req.VariantID, req.Quantity, req.TotalPrice)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrProductsNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Product not found"))

			case errors.Is(err, storage.ErrVariantsNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Variant not found"))

			case errors.Is(err, orders.ErrTotalRequired):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error("Total price required: product has no observed price"))

			default:
				log.Error("Failed to create order", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("Internal error"))
			}

			return
		}

		log.Info("Order created successfully",
			slog.Int64("order_id", order.ID),
			slog.Int64("product_id", order.ProductID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response: resp.OK(),
			Order:    order,
		})
	}
}
