// Package httpapi serves docchat over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	Addr           string
	CORSOrigins    []string
	MaxUploadBytes int64
	Version        string
}

// Server is the docchat HTTP API.
type Server struct {
	cfg    Config
	ports  *Ports
	router *gin.Engine
}

// NewServer creates a server with all routes registered.
func NewServer(cfg Config, ports *Ports) (*Server, error) {
	if ports == nil || ports.Documents == nil || ports.Chat == nil {
		return nil, errors.New("httpapi: document and chat services are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = domain.DefaultMaxUploadBytes
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(
		gin.Recovery(),
		otelgin.Middleware("docchat"),
		RequestID(),
		RequestLogger(),
		CORS(cfg.CORSOrigins),
	)

	s := &Server{cfg: cfg, ports: ports, router: router}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/document", s.handleDocument)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/process", s.handleProcess)
	s.router.POST("/reset", s.handleReset)
	s.router.GET("/sessions/:id/history", s.handleHistory)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
