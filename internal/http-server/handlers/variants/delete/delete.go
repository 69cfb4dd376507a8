package deleteVariant

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

type VariantsRemover interface {
	DeleteVariant(ctx context.Context, variantID int64) error
}

func New(
	log *slog.Logger,
	variantsRemover VariantsRemover,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.variants.delete.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		variantID := parseVariantID(r)
		if variantID == -1 {
			log.Error("Invalid id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := variantsRemover.DeleteVariant(ctx, variantID); err != nil {
			if errors.Is(err, storage.ErrVariantsNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("Variant not found"))

				return
			}

			log.Error("Failed to delete variant",
				sl.Err(err),
				slog.Int64("variant_id", variantID),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Variant deleted successfully", slog.Int64("variant_id", variantID))

		render.JSON(w, r, Response{Response: resp.OK()})
	}
}

func parseVariantID(r *http.Request) int64 {
	variantIDStr := r.URL.Query().Get("id")
	if variantIDStr == "" {
		return -1
	}

	variantID, err := strconv.ParseInt(variantIDStr, 10, 64)
	if err != nil || variantID < 0 {
		return -1
	}

	return variantID
}
