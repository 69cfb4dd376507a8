package getStats

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pricewatch/internal/dashboard"
	resp "pricewatch/internal/lib/api/response"
	sl "pricewatch/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	resp.Response
	Stats dashboard.Stats `json:"stats"`
}

type StatsGetter interface {
	Stats(ctx context.Context) (dashboard.Stats, error)
}

func New(
	log *slog.Logger,
	statsGetter StatsGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.stats.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		stats, err := statsGetter.Stats(ctx)
		if err != nil {
			log.Error("Failed to compute stats", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Stats served")

		render.JSON(w, r, Response{
			Response: resp.OK(),
			Stats:    stats,
		})
	}
}
