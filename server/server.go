// Package server is an in-memory implementation of the catalog REST
// contract, used for local runs of the admin client and for tests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/logger"
)

type Config struct {
	Host        string
	Port        int
	Latency     time.Duration
	Version     string
	CORSEnabled bool
	Seed        bool
}

func (c *Config) FullAddress() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

type Server struct {
	Config   *Config
	Products *Collection[catalog.Product]
	Brands   *Collection[catalog.Brand]
	Metrics  *Metrics
	router   *gin.Engine
	log      logger.Logger
}

func NewServer(config *Config, log logger.Logger) *Server {
	if config == nil {
		config = &Config{Host: "127.0.0.1", Port: 8080, Version: "dev", Seed: true}
	}
	if log == nil {
		log = logger.GetDefault()
	}
	s := &Server{Config: config, Metrics: NewMetrics(), log: log}
	if config.Seed {
		s.Products = NewProductCollection(SampleProducts()...)
		s.Brands = NewBrandCollection(SampleBrands()...)
	} else {
		s.Products = NewProductCollection()
		s.Brands = NewBrandCollection()
	}
	s.buildRouter()
	return s
}

func (s *Server) buildRouter() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.Metrics.Middleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(s.log))
	if s.Config.CORSEnabled {
		router.Use(CORSMiddleware())
	}
	router.Use(LatencyMiddleware(s.Config.Latency))
	router.GET("/metrics", s.Metrics.Handler())
	s.RegisterRoutes(router)
	s.router = router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.Config.FullAddress()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting dev backend", "address", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("dev backend failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Debug("Shutting down dev backend")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("Dev backend stopped")
	return nil
}
