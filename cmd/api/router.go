package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"bookmanager/internal/book"
	"bookmanager/internal/config"
	"bookmanager/internal/httpx"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	books   *book.HTTPHandler
	db      pinger
	metrics *httpx.Metrics
	limiter *httpx.RateLimitMiddleware
	logger  *slog.Logger
	http    config.HTTPConfig
}

func newRouter(d routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", d.metrics.Handler())

	d.books.Register(router)

	middlewares := []func(http.Handler) http.Handler{
		httpx.RecoveryMiddleware(d.logger),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(d.http.EnableHSTS),
		httpx.CORSMiddleware(d.http.CORSAllowedOrigins),
	}
	if d.limiter != nil {
		middlewares = append(middlewares, d.limiter.Middleware)
	}
	middlewares = append(middlewares,
		httpx.RequestSizeLimitMiddleware(d.http.MaxBodyBytes),
		httpx.ContentTypeMiddleware,
		d.metrics.Middleware,
	)

	return httpx.Chain(middlewares...)(router)
}
