package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pricewatch/internal/config"
	"pricewatch/internal/dashboard"
	getDashboard "pricewatch/internal/http-server/handlers/dashboard/get"
	getStats "pricewatch/internal/http-server/handlers/dashboard/stats"
	getNotifications "pricewatch/internal/http-server/handlers/notifications/get"
	markNotificationRead "pricewatch/internal/http-server/handlers/notifications/mark_read"
	addOrder "pricewatch/internal/http-server/handlers/orders/add"
	deleteOrder "pricewatch/internal/http-server/handlers/orders/delete"
	getOrders "pricewatch/internal/http-server/handlers/orders/get"
	updateOrderStatus "pricewatch/internal/http-server/handlers/orders/update_status"
	addProduct "pricewatch/internal/http-server/handlers/products/add"
	deleteProduct "pricewatch/internal/http-server/handlers/products/delete"
	getProducts "pricewatch/internal/http-server/handlers/products/get"
	getByID "pricewatch/internal/http-server/handlers/products/get_by_id"
	priceHistory "pricewatch/internal/http-server/handlers/products/history"
	addVariant "pricewatch/internal/http-server/handlers/variants/add"
	deleteVariant "pricewatch/internal/http-server/handlers/variants/delete"
	getVariants "pricewatch/internal/http-server/handlers/variants/get"
	updateVariant "pricewatch/internal/http-server/handlers/variants/update"
	sl "pricewatch/internal/lib/logger"
	"pricewatch/internal/lib/observer"
	dashboardOp "pricewatch/internal/middleware/dashboard"
	ordersOp "pricewatch/internal/middleware/orders"
	productsOp "pricewatch/internal/middleware/products"
	"pricewatch/internal/rabbitmq"
	"pricewatch/internal/scheduler"
	"pricewatch/internal/storage/postgres"
	"pricewatch/internal/storage/redis"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const recentOrdersSeed = 10

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting pricewatch", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Db, cfg.Redis.DefaultTTL, cfg.Redis.SnapshotTTL)
	if err != nil {
		log.Error("failed to connect redis", sl.Err(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	postgresClient, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgreSQL", sl.Err(err))
		os.Exit(1)
	}
	defer postgresClient.Close()

	rabbitMQClient, err := rabbitmq.New(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("failed to connect rabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	defer rabbitMQClient.Close()

	jobsProducer := rabbitmq.NewProducer(
		rabbitMQClient.Channel,
		cfg.RabbitMQ.JobsQueue,
	)
	resultsConsumer := rabbitmq.NewConsumer(
		rabbitMQClient.Channel,
		log,
		cfg.RabbitMQ.ResultsQueue,
		cfg.RabbitMQ.WorkerPoolSize,
	)

	seed, err := postgresClient.RecentOrders(ctx, recentOrdersSeed)
	if err != nil {
		log.Error("failed to seed recent orders", sl.Err(err))
		os.Exit(1)
	}
	recentOrders := dashboard.NewRecentBuffer(seed)

	prodOP := productsOp.New(postgresClient, redisClient, jobsProducer)
	orderOP := ordersOp.New(postgresClient, recentOrders)
	dashOP := dashboardOp.New(postgresClient, redisClient, recentOrders)

	priceObserver := observer.New(log, postgresClient)
	if err := priceObserver.Run(ctx, resultsConsumer); err != nil {
		log.Error("failed to start observer", sl.Err(err))
		os.Exit(1)
	}

	go scheduler.Run(ctx, log, postgresClient, jobsProducer, cfg.CheckInterval)

	requestValidator := validator.New()

	router := setupRouter(
		log,
		requestValidator,
		postgresClient,
		prodOP,
		orderOP,
		dashOP,
	)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		if err := server.Shutdown(context.Background()); err != nil {
			log.Error("server shutdown failed", sl.Err(err))
		}
	}()

	log.Info("http server listening", slog.String("address", cfg.HTTPServer.Address))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", sl.Err(err))
		os.Exit(1)
	}

	log.Info("pricewatch stopped")
}

func setupRouter(
	log *slog.Logger,
	validate *validator.Validate,
	postgres *postgres.PostgresRepo,
	prodOP *productsOp.ProductOperator,
	orderOP *ordersOp.OrderOperator,
	dashOP *dashboardOp.DashboardOperator,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/product", addProduct.New(log, prodOP, validate))
	r.Get("/products", getProducts.New(log, postgres))
	r.Get("/product", getByID.New(log, prodOP))
	r.Get("/product/history", priceHistory.New(log, postgres))
	r.Delete("/product", deleteProduct.New(log, prodOP))

	r.Post("/variant", addVariant.New(log, postgres, validate))
	r.Get("/variants", getVariants.New(log, postgres))
	r.Put("/variant", updateVariant.New(log, postgres, validate))
	r.Delete("/variant", deleteVariant.New(log, postgres))

	r.Post("/order", addOrder.New(log, orderOP, validate))
	r.Get("/orders", getOrders.New(log, postgres))
	r.Put("/order/status", updateOrderStatus.New(log, postgres, validate))
	r.Delete("/order", deleteOrder.New(log, orderOP))

	r.Get("/notifications", getNotifications.New(log, postgres))
	r.Put("/notification/read", markNotificationRead.New(log, postgres, validate))

	r.Get("/dashboard", getDashboard.New(log, dashOP))
	r.Get("/dashboard/stats", getStats.New(log, dashOP))

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
