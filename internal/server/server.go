// Package server exposes the board over HTTP: board reads and edits, image
// uploads, document export and import, and a remote drag session driven by
// browser pointer and touch events.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/internal/ingest"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Body limits for JSON requests. Board documents carry data-URI images and
// get the larger ceiling.
const (
	maxRequestBody  = 1 << 20
	maxDocumentBody = 64 << 20

	shutdownTimeout = 5 * time.Second

	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
)

// Server is the HTTP front-end of one board service.
type Server struct {
	e        *echo.Echo
	svc      *board.Service
	revs     *Revisions
	remote   *remoteDrag
	maxBytes int64
	log      *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMaxBytes sets the per-file ceiling for image uploads.
func WithMaxBytes(n int64) Option {
	return func(s *Server) { s.maxBytes = n }
}

// WithRevisions sets the revision counter used for board ETags. It must be
// the service's projector (or be chained into it) for ETags to change.
func WithRevisions(r *Revisions) Option {
	return func(s *Server) { s.revs = r }
}

// New builds the server and registers every route.
func New(svc *board.Service, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		maxBytes: ingest.DefaultMaxBytes,
		log:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.revs == nil {
		s.revs = NewRevisions(nil)
	}
	s.remote = newRemoteDrag(svc, s.log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, headerIfNoneMatch},
		ExposeHeaders: []string{headerETag, echo.HeaderContentDisposition},
	}))
	e.Use(requestLogger(s.log))
	s.e = e
	s.register()
	return s
}

func (s *Server) register() {
	e := s.e
	e.GET("/healthz", s.healthz)

	e.GET("/api/board", s.getBoard)
	e.PUT("/api/board", s.putBoard)
	e.GET("/api/board/export", s.exportBoard)
	e.POST("/api/reset", s.reset)

	e.POST("/api/tiers", s.addTier)
	e.PATCH("/api/tiers/:id", s.updateTier)
	e.DELETE("/api/tiers/:id", s.deleteTier)
	e.POST("/api/tiers/:id/clear", s.clearTier)
	e.POST("/api/tiers/:id/move", s.moveTier)

	e.POST("/api/items", s.createItem)
	e.DELETE("/api/items/:id", s.deleteItem)
	e.POST("/api/items/:id/move", s.moveItem)
	e.DELETE("/api/pool", s.clearPool)
	e.POST("/api/images", s.uploadImages)

	e.GET("/api/drag", s.dragState)
	e.POST("/api/drag/start", s.dragStart)
	e.POST("/api/drag/move", s.dragMove)
	e.POST("/api/drag/end", s.dragEnd)
	e.POST("/api/drag/cancel", s.dragCancel)
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.e }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- s.e.Start(addr) }()
	s.log.WithField("addr", addr).Info("serving board")

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.e.Shutdown(shutdownCtx)
	}
}

func requestLogger(l *log.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := l.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Debug("request")
			return nil
		},
	})
}

// decode reads a JSON body of at most limit bytes into v.
func decode(c echo.Context, limit int64, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

// httpError maps board and drag errors to HTTP status codes.
func httpError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrDuplicateID),
		errors.Is(err, types.ErrEmptyItem),
		errors.Is(err, types.ErrInvalidColor),
		errors.Is(err, types.ErrInvalidDocument),
		errors.Is(err, drag.ErrUnknownKind):
		code = http.StatusBadRequest
	case errors.Is(err, drag.ErrSessionActive),
		errors.Is(err, drag.ErrNoSession):
		code = http.StatusConflict
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}
