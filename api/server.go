package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pos_core/internal/catalog"
	"pos_core/internal/config"
	"pos_core/internal/metrics"
	"pos_core/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"api",
		fx.Provide(func(a *storage.Adapter) catalog.Migrator { return a }),
		fx.Provide(NewHandler),
		fx.Provide(NewEngine),
		fx.Invoke(registerServer),
	)
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// NewEngine builds the Gin engine with every route registered.
func NewEngine(h *Handler, m *metrics.Metrics, cfg config.Config) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Recovery(), requestLogger(h.logger))

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}
	InitRoutes(e, h, metricsHandler)
	return e
}

func registerServer(lc fx.Lifecycle, e *gin.Engine, cfg config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
