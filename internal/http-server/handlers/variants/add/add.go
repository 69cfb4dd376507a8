package addVariant

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
	"github.com/shopspring/decimal"
)

type Request struct {
	ProductID     int64               `json:"product_id" validate:"required"`
	Type          string              `json:"type" validate:"required"`
	Value         string              `json:"value" validate:"required"`
	PriceOverride decimal.NullDecimal `json:"price_override"`
	Stock         int                 `json:"stock" validate:"gte=0"`
}

type Response struct {
	resp.Response
	VariantID int64 `json:"variant_id"`
}

type VariantSaver interface {
	SaveVariant(ctx context.Context, v models.Variant) (int64, error)
}

func New(
	log *slog.Logger,
	variantSaver VariantSaver,
	validate *validator.Validate,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.variants.add.New"

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

		variantID, err := variantSaver.SaveVariant(ctx, models.Variant{
			ProductID:     req.ProductID,
			Type:          req.Type,
			Value:         req.Value,
			PriceOverride: req.PriceOverride,
			Stock:         req.Stock,
		})
		if err != nil {
			if errors.Is(err, storage.ErrProductsNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Product not found"))

				return
			}

			log.Error("Failed to save variant", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Variant saved successfully",
			slog.Int64("variant_id", variantID),
			slog.Int64("product_id", req.ProductID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{
			Response:  resp.OK(),
			VariantID: variantID,
		})
	}
}
