package getDashboard

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
	Dashboard dashboard.Snapshot `json:"dashboard"`
}

type SnapshotGetter interface {
	Snapshot(ctx context.Context) (dashboard.Snapshot, error)
}

func New(
	log *slog.Logger,
	snapshotGetter SnapshotGetter,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		snapshot, err := snapshotGetter.Snapshot(ctx)
		if err != nil {
			log.Error("Failed to compute dashboard", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("Internal error"))

			return
		}

		log.Info("Dashboard served",
			slog.Int("orders", snapshot.Summary.Orders),
			slog.Int("products", snapshot.Summary.Products),
		)

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			Dashboard: snapshot,
		})
	}
}
