package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookmanager/internal/book"
	"bookmanager/internal/config"
	"bookmanager/internal/httpx"
	"bookmanager/internal/logging"
	"bookmanager/internal/platform/mongodb"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := mustConnectDB(ctx, cfg.Mongo)
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("disconnect database", "error", err)
		}
	}()

	bookRepository := book.NewMongoRepo(client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	if err := bookRepository.EnsureIndexes(ctx); err != nil {
		logger.Error("cannot ensure indexes", "error", err)
		os.Exit(1)
	}
	bookHandler := book.NewHTTPHandler(book.NewService(bookRepository))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var limiter *httpx.RateLimitMiddleware
	if cfg.HTTP.RateLimitRPS > 0 {
		limiter = httpx.NewRateLimitMiddleware(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	}

	httpServer := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: newRouter(routerDeps{
			books:   bookHandler,
			db:      mongodb.NewPinger(client),
			metrics: httpx.NewMetrics(registry),
			limiter: limiter,
			logger:  logger,
			http:    cfg.HTTP,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}

func mustConnectDB(ctx context.Context, cfg config.MongoConfig) *mongo.Client {
	client, err := mongodb.Connect(ctx, cfg.URI, cfg.ConnectTimeout)
	if err != nil {
		slog.Error("cannot connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection OK", "uri", mongodb.RedactURI(cfg.URI), "database", cfg.Database)
	return client
}
