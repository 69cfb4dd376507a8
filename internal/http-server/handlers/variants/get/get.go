package getVariants

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	resp "pricewatch/internal/lib/api/response"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Variants []models.Variant `json:"variants"`
}

type VariantsGetter interface {
	VariantsByProduct(ctx context.Context, productID int64) ([]models.Variant, error)
}

func New(
	log *slog.Logger,
	variantsGetter VariantsGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.variants.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		productID := parseProductID(r)
		if productID == -1 {
			log.Error("Invalid product_id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid product_id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		variants, err := variantsGetter.VariantsByProduct(ctx, productID)
		if err != nil {
			log.Error("Failed to get variants",
				sl.Err(err),
				slog.Int64("product_id", productID),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if variants == nil {
			variants = []models.Variant{}
		}

		log.Info("Variants got successfully",
			slog.Int64("product_id", productID),
			slog.Int("count", len(variants)),
		)

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Variants: variants,
		})
	}
}

func parseProductID(r *http.Request) int64 {
	productIDStr := r.URL.Query().Get("product_id")
	if productIDStr == "" {
		return -1
	}

	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID < 0 {
		return -1
	}

	return productID
}
