// Package server is the web front end: a topic form, a synchronous
// generate action and a per-browser result view with download.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"ai_tutorial_generator/metrics"
	"ai_tutorial_generator/pipeline"
	"ai_tutorial_generator/publisher"
)

//go:embed web/*.html
var templatesFS embed.FS

const sessionCookie = "tutorgen_session"

// Normalizer previews and finalizes user topics.
type Normalizer interface {
	Normalize(ctx context.Context, raw string) string
}

// Runner executes one tutorial generation.
type Runner interface {
	Run(ctx context.Context, topic string) (pipeline.Result, error)
}

type Options struct {
	// RequestTimeout bounds a single generation. Zero means no bound.
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

type Server struct {
	normalizer Normalizer
	runner     Runner
	publisher  *publisher.Publisher
	sessions   *sessionStore
	timeout    time.Duration
	logger     *zap.Logger
	metrics    *metrics.Metrics
	e          *echo.Echo
}

type templateRenderer struct {
	t *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}

func New(norm Normalizer, runner Runner, pub *publisher.Publisher, opts Options) (*Server, error) {
	if norm == nil || runner == nil || pub == nil {
		return nil, errors.New("normalizer, runner and publisher required")
	}
	tmpl, err := template.ParseFS(templatesFS, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Server{
		normalizer: norm,
		runner:     runner,
		publisher:  pub,
		sessions:   newStore(),
		timeout:    opts.RequestTimeout,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{t: tmpl}
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency))
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	ui := e.Group("", s.withSession)
	ui.GET("/", s.handleIndex)
	ui.POST("/api/topic", s.handleTopicPreview)
	ui.POST("/generate", s.handleGenerate)
	ui.GET("/download", s.handleDownload)
	ui.POST("/reset", s.handleReset)

	s.e = e
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("web server listening", zap.String("addr", addr))
	if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// withSession makes sure every UI request carries a valid session id.
func (s *Server) withSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := ""
		if ck, err := c.Cookie(sessionCookie); err == nil {
			if _, err := uuid.Parse(ck.Value); err == nil {
				id = ck.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(sessionCookie, id)
		return next(c)
	}
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(sessionCookie).(string)
	return id
}

func (s *Server) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
	}
	req := c.Request()
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", code),
			zap.String("method", req.Method), zap.String("path", req.URL.Path), zap.Error(err))
	}
	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
