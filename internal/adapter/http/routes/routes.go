package routes

import (
	"context"
	"errors"
	"log"
	"fmt"
	"net/http"
	"time"

	_ "bookinghub/docs" // This will be auto-generated
	"bookinghub/internal/adapter/http/middleware"
	"bookinghub/internal/config"
	"bookinghub/internal/infrastructure/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API on cfg.HTTPAddr until ctx is cancelled, then drains
// in-flight requests and closes the stores, relay and tracer.
func Run(ctx context.Context, cfg config.Config) error {
	shutdownTracer, err := observability.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("start tracing: %w", err)
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(a),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[routes] listening addr=%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Printf("[routes] shutting down")
	case err = <-serveErr:
		log.Printf("[routes] listener stopped err=%v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[routes] http shutdown failed err=%v", err)
	}
	a.close()
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("[routes] tracer shutdown failed err=%v", err)
	}
	return err
}

func newRouter(a *app) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	reg := prometheus.NewRegistry()
	reg.MustRegister(a.metrics, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	authenticated := middleware.Auth(a.verifier)

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addBookingRoutes(v1, a.bookingHandler, authenticated)
	addNotificationRoutes(v1, a.notificationHandler, authenticated)
	addRealtimeRoutes(v1, a.realtimeHandler)
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(newAccessLogger(gin.DefaultWriter))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
