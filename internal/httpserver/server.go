package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteRegistrar is implemented by modules that serve HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// Server serves health checks, metrics and module routes.
type Server struct {
	addr   string
	engine *gin.Engine
}

// New creates a Server listening on addr. Metrics are gathered from g.
func New(addr string, g prometheus.Gatherer) *Server {
	engine := gin.New()
	engine.Use(requestLogger(), gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))

	return &Server{addr: addr, engine: engine}
}

// Register mounts the routes of every registrar.
func (s *Server) Register(registrars ...RouteRegistrar) {
	for _, r := range registrars {
		r.RegisterRoutes(s.engine)
	}
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	srv := &http.Server{
		Handler:     s.engine,
		ReadTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("started HTTP server", "addr", l.Addr().String())
		errc <- srv.Serve(l)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("served request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
