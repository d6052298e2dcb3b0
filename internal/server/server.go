// Package server serves the paste-and-extract web page and a small JSON API.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/homestarrealty/buyerhunter/internal/export"
	"github.com/homestarrealty/buyerhunter/internal/leads"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxBodyBytes bounds pasted text.
const maxBodyBytes = "2M"

// PrepareFunc turns submitted text into scannable text (HTML flattening,
// normalization). It must not return an error; validation happens after.
type PrepareFunc func(raw string, html bool) string

// Options configures a Server.
type Options struct {
	Extractor leads.Extractor
	Prepare   PrepareFunc
	Logger    zerolog.Logger
	Version   string
}

// Server provides the web UI and API endpoints.
type Server struct {
	echo    *echo.Echo
	ex      leads.Extractor
	prepare PrepareFunc
	log     zerolog.Logger
	tmpl    *template.Template
	version string
}

// New builds a Server. Extractor is required.
func New(opts Options) (*Server, error) {
	if opts.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if opts.Prepare == nil {
		opts.Prepare = func(raw string, _ bool) string { return raw }
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{"join": export.JoinNames}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		ex:      opts.Extractor,
		prepare: opts.Prepare,
		log:     opts.Logger,
		tmpl:    tmpl,
		version: opts.Version,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(maxBodyBytes))
	e.Use(s.requestLogger)

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.log.Info().
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Int("status", c.Response().Status).
			Dur("duration", time.Since(start)).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("http request")
		return nil
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/extract", s.handleExtract)
	s.echo.POST("/download.csv", s.handleDownloadCSV)
	s.echo.GET("/health", s.handleHealth)

	v1 := s.echo.Group("/api/v1")
	v1.POST("/extract", s.handleAPIExtract)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("starting http server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down http server")
	return s.echo.Shutdown(ctx)
}

func (s *Server) render(c echo.Context, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}
