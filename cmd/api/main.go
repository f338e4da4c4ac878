package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ldurand/contacthub/internal/auth"
	"github.com/ldurand/contacthub/internal/config"
	"github.com/ldurand/contacthub/internal/db"
	httpx "github.com/ldurand/contacthub/internal/http"
	"github.com/ldurand/contacthub/internal/observability"
	"github.com/ldurand/contacthub/internal/repo/postgres"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is best effort: a missing collector should not stop the API
	shutdownTracer, err := observability.InitTracer(context.Background(), "contacthub", cfg.OTLPEndpoint)

	if err != nil {
		log.Warn("tracer init failed", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	ctx, cancel := config.WithTimeout(5 * time.Second)

	err = db.EnsureSchema(ctx, pool)

	cancel()

	if err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())

	ping := func() error {
		pctx, pcancel := config.WithTimeout(1 * time.Second)
		defer pcancel()

		return pool.Ping(pctx)
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:      log,
		Cfg:      cfg,
		JWT:      jwtManager,
		Users:    postgres.NewUsersRepo(pool, prom),
		Contacts: postgres.NewContactsRepo(pool, prom),
		Ping:     ping,
		Prom:     prom,
		Registry: registry,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, scancel := config.WithTimeout(10 * time.Second)

		defer scancel()

		if err := srv.Shutdown(sctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return
		}

		_ = shutdownTracer(sctx)
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
