// Package httpapi exposes the orchestrator over HTTP.
//
// Sessions are created and addressed through a JSON API; turn output is
// streamed back as server-sent events so callers see partial text, tool
// results, and handoffs in the order they happen.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/orchestrator"
	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// Server provides HTTP endpoints for wellnessd.
type Server struct {
	echo     *echo.Echo
	sessions *orchestrator.Registry
	logger   *zap.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(sessions *orchestrator.Registry, logger *zap.Logger, cfg *Config) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session registry cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host: "127.0.0.1",
			Port: 8097,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())

	s := &Server{
		echo:     e,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
	}

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/sessions", s.handleCreateSession)
	v1.GET("/sessions/:id", s.handleGetSession)
	v1.DELETE("/sessions/:id", s.handleDeleteSession)
	v1.POST("/sessions/:id/messages", s.handleMessage)
}

// CreateSessionRequest is the request body for POST /api/v1/sessions.
type CreateSessionRequest struct {
	Name     string  `json:"name"`
	Age      int     `json:"age,omitempty"`
	Gender   string  `json:"gender,omitempty"`
	WeightKg float64 `json:"weight_kg,omitempty"`
	HeightCm float64 `json:"height_cm,omitempty"`
}

// CreateSessionResponse is the response body for POST /api/v1/sessions.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	UID       int64  `json:"uid"`
}

// SessionResponse is the response body for GET /api/v1/sessions/:id.
type SessionResponse struct {
	State   string           `json:"state"`
	Agent   string           `json:"agent"`
	Session *session.Context `json:"session"`
}

// MessageRequest is the request body for POST /api/v1/sessions/:id/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleCreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid create session request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}

	id, router, err := s.sessions.Create(session.Profile{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		WeightKg: req.WeightKg,
		HeightCm: req.HeightCm,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s.logger.Info("session created",
		zap.String("session_id", id),
		zap.Int64("uid", router.Session().Profile.UID),
	)

	return c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: id,
		UID:       router.Session().Profile.UID,
	})
}

func (s *Server) handleGetSession(c echo.Context) error {
	router, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, orchestrator.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, SessionResponse{
		State:   string(router.State()),
		Agent:   string(router.Active()),
		Session: router.Session(),
	})
}

func (s *Server) handleDeleteSession(c echo.Context) error {
	s.sessions.Remove(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// handleMessage processes one utterance and streams the turn's events as
// server-sent events, one `data:` line per event, flushed as they arrive.
func (s *Server) handleMessage(c echo.Context) error {
	router, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, orchestrator.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid message request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message field is required")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	for ev := range router.Process(ctx, req.Message) {
		if err := writeEvent(resp, ev); err != nil {
			// Client went away; the router observes the request context
			// and winds the turn down on its own.
			s.logger.Debug("sse write failed", zap.Error(err))
			return nil
		}
	}
	return nil
}

func writeEvent(resp *echo.Response, ev orchestrator.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", ev.Type, payload); err != nil {
		return err
	}
	resp.Flush()
	return nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
