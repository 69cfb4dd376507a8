package priceHistory

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
	History []models.PricePoint `json:"history"`
}

type HistoryGetter interface {
	PriceHistory(ctx context.Context, productID int64) ([]models.PricePoint, error)
}

func New(
	log *slog.Logger,
	historyGetter HistoryGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.products.history.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		productID := parseProductID(r)
		if productID == -1 {
			log.Error("Invalid id")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid id"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		history, err := historyGetter.PriceHistory(ctx, productID)
		if err != nil {
			log.Error("Failed to get price history",
				sl.Err(err),
				slog.Int64("product_id", productID),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if history == nil {
			history = []models.PricePoint{}
		}

		log.Info("Price history got successfully",
			slog.Int64("product_id", productID),
			slog.Int("points", len(history)),
		)

		ResponseOK(w, r, history)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, history []models.PricePoint) {
	render.JSON(w, r, Response{
		Response: resp.OK(),
		History:  history,
	})
}

func parseProductID(r *http.Request) int64 {
	productIDStr := r.URL.Query().Get("id")
	if productIDStr == "" {
		return -1
	}

	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID < 0 {
		return -1
	}

	return productID
}
