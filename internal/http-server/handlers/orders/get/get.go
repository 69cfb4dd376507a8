package getOrders

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

const (
	defaultLimit  = 20
	maxLimit      = 100
	defaultOffset = 0
)

type Response struct {
	resp.Response
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type Pagination struct {
	Limit      int64 `json:"limit"`
	Offset     int64 `json:"offset"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

type OrdersGetter interface {
	Orders(ctx context.Context, status *models.OrderStatus, limit, offset int64) ([]models.Order, int64, error)
}

func New(
	log *slog.Logger,
	ordersGetter OrdersGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit := parseLimit(r)
		offset := parseOffset(r)

		status, ok := parseStatus(r)
		if !ok {
			log.Error("Invalid status filter")

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Invalid status"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		orders, total, err := ordersGetter.Orders(ctx, status, limit, offset)
		if err != nil {
			log.Error("Failed to get orders",
				sl.Err(err),
				slog.Int64("limit", limit),
				slog.Int64("offset", offset),
			)

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		if orders == nil {
			orders = []models.Order{}
		}

		log.Info("Orders got successfully",
			slog.Int("count", len(orders)),
			slog.Int64("total", total),
		)

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Orders:   orders,
			Pagination: Pagination{
				Limit:      limit,
				Offset:     offset,
				Total:      total,
				TotalPages: (total + limit - 1) / limit,
				HasMore:    offset+int64(len(orders)) < total,
			},
		})
	}
}

// parseStatus returns nil for "no filter". ok is false when the query
// carries a value outside the closed status set.
func parseStatus(r *http.Request) (*models.OrderStatus, bool) {
	statusStr := r.URL.Query().Get("status")
	if statusStr == "" {
		return nil, true
	}

	status := models.OrderStatus(statusStr)
	if !status.Valid() {
		return nil, false
	}

	return &status, true
}

func parseLimit(r *http.Request) int64 {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultLimit
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 {
		return defaultLimit
	}

	if limit > maxLimit {
		return maxLimit
	}

	return limit
}

func parseOffset(r *http.Request) int64 {
	offsetStr := r.URL.Query().Get("offset")
	if offsetStr == "" {
		return defaultOffset
	}

	offset, err := strconv.ParseInt(offsetStr, 10, 64)
	if err != nil || offset < 0 {
		return defaultOffset
	}

	return offset
}
