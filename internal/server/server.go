// Package server exposes the portfolio over HTTP: a plain-text résumé,
// JSON content and SVG snapshots of the particle field.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/telemetry"
	"github.com/san-kum/termfolio/internal/viz"
)

const (
	DefaultWidth = 1440
	MaxFrames    = 600
	MaxWidth     = 7680
)

// Stats is implemented by recorders that can report totals.
type Stats interface {
	Counts(ctx context.Context) (map[telemetry.Kind]int64, error)
	UniqueVisitors(ctx context.Context) (int64, error)
}

type Options struct {
	Content  *content.Document
	Recorder telemetry.Recorder
	// Salt is mixed into client address hashes.
	Salt   string
	Theme  viz.Theme
	Mode   string
	Logger zerolog.Logger
}

type Server struct {
	opts   Options
	engine *gin.Engine
}

func New(opts Options) *Server {
	if opts.Content == nil {
		opts.Content = content.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = telemetry.Nop{}
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeNothing
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{opts: opts, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger(opts.Logger), visitorTracking(opts.Recorder, opts.Salt, opts.Logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/", s.resume)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/content", s.contentJSON)
	api.GET("/field", s.fieldSettings)
	api.GET("/stats", s.stats)

	r.GET("/field.svg", s.fieldSVG)
	r.GET("/edges.svg", s.edgesSVG)
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.opts.Logger.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
