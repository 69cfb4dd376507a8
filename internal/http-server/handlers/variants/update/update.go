package updateVariant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	resp "pricewatch/internal/lib/api/response"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Request struct {
	ID            int64               `json:"id" validate:"required"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	PriceOverride decimal.NullDecimal `json:"price_override"`
}

type Response struct {
	resp.Response
}

type VariantUpdater interface {
	UpdateVariant(ctx context.Context, variantID int64, stock int, priceOverride decimal.NullDecimal) error
}

func New(
	log *slog.Logger,
	variantUpdater VariantUpdater,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.variants.update.New"

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

		if err := variantUpdater.UpdateVariant(ctx, req.ID, req.Stock, req.PriceOverride); err != nil {
			if errors.Is(err, storage.ErrVariantsNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Variant not found"))

				return
			}

			log.Error("Failed to update variant",
				sl.Err(err),
				slog.Int64("variant_id", req.ID),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Variant updated successfully", slog.Int64("variant_id", req.ID))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}
