package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cartapp "github.com/dwikikusuma/cart-service/internal/cart/app"
	"github.com/dwikikusuma/cart-service/internal/cart/httpapi"
	"github.com/dwikikusuma/cart-service/internal/cart/infra/storage"
	catalogapp "github.com/dwikikusuma/cart-service/internal/catalog/app"
	"github.com/dwikikusuma/cart-service/pkg/config"
	"github.com/dwikikusuma/cart-service/pkg/logger"
	"github.com/dwikikusuma/cart-service/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "cartd",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Hydrate before anything can reach the store.
	slot := storage.NewSlot(cfg.DataDir, log)
	cart := cartapp.NewStore(slot, log)
	catalog := catalogapp.NewService(noSource{}, log)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestID())

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	httpapi.NewServer(cart, catalog, log).RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

// noSource stands in when no fetching collaborator is wired up; the intake
// endpoint receives records in the request body instead.
type noSource struct{}

func (noSource) FetchRecords(_ context.Context) ([]json.RawMessage, error) {
	return nil, nil
}
