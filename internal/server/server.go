package server

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/crmweb/internal/middleware"

	"winsbygroup.com/crmweb/internal/apiclient"
	"winsbygroup.com/crmweb/internal/config"
	"winsbygroup.com/crmweb/internal/viewstate"
	"winsbygroup.com/crmweb/static"

	webhttp "winsbygroup.com/crmweb/internal/http/web"
)

// sweepInterval is how often expired views are dropped
const sweepInterval = time.Minute

type Server struct {
	Echo *echo.Echo
	HTTP *http.Server
	DB   *sqlx.DB // dev API only

	stop     chan struct{}
	shutdown []shutdownFunc
}

// Close stops background work, flushes telemetry and closes the database
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	for _, fn := range s.shutdown {
		errs = append(errs, fn(ctx))
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}

// Build wires the web front end: API client, view store, middleware and pages
func Build(cfg *config.Config) (*Server, error) {
	s := &Server{stop: make(chan struct{})}

	//
	// API client
	//
	var opts []apiclient.Option
	if cfg.TraceStdout {
		tp, err := newTracerProvider()
		if err != nil {
			return nil, err
		}
		s.shutdown = append(s.shutdown, tp.Shutdown)
		opts = append(opts, apiclient.WithTracerProvider(tp))
		log.Print("Tracing API calls to stdout")
	}
	api := apiclient.New(cfg.APIBaseURL, opts...)
	log.Printf("Using API at '%s'", api.BaseURL())

	//
	// Views
	//
	views := viewstate.NewStore(cfg.ViewTTL)
	views.StartSweeper(sweepInterval, s.stop)

	webHandler := webhttp.NewHandler(api, api, views)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := api.Ping(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "API not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	// Middleware
	e.Use(mwecho.Logger())
	e.Use(mwecho.Recover())
	e.Use(mwsvc.Theme())   // Read theme cookie into context
	e.Use(mwsvc.Version()) // Add app version to context
	e.Use(mwsvc.CSRFProtect(cfg.SecureCookies, skipCSRF))
	e.Use(mwsvc.CSRF()) // Copy CSRF token to request context for templates

	// Web UI
	webhttp.RegisterRoutes(e.Group(""), webHandler)

	// Static files (embedded)
	jsFS, _ := fs.Sub(static.Files, "js")
	e.GET("/static/js/*", echo.WrapHandler(http.StripPrefix("/static/js/", http.FileServer(http.FS(jsFS)))))
	cssFS, _ := fs.Sub(static.Files, "css")
	e.GET("/static/css/*", echo.WrapHandler(http.StripPrefix("/static/css/", http.FileServer(http.FS(cssFS)))))

	//
	// HTTP server
	//
	s.Echo = e
	s.HTTP = &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// skipCSRF exempts static assets and health probes
func skipCSRF(c echo.Context) bool {
	p := c.Request().URL.Path
	return strings.HasPrefix(p, "/static/") || p == "/livez" || p == "/readyz"
}
