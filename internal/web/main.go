// Package web wires the fiber app: middleware, session handling and the API handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/eter-store/eter-admin/internal/auth"
	"github.com/eter-store/eter-admin/internal/config"
	"github.com/eter-store/eter-admin/internal/gamification"
	accesslog "github.com/eter-store/eter-admin/internal/logger/adapter/fiber"
	"github.com/eter-store/eter-admin/internal/settings"
	"github.com/eter-store/eter-admin/internal/web/handler"
	"github.com/eter-store/eter-admin/internal/web/handler/academy"
	"github.com/eter-store/eter-admin/internal/web/handler/admin/override"
	"github.com/eter-store/eter-admin/internal/web/handler/login"
	"github.com/eter-store/eter-admin/internal/web/handler/logout"
	settingshandler "github.com/eter-store/eter-admin/internal/web/handler/settings"
	"github.com/eter-store/eter-admin/internal/web/session"
)

const (
	// CheckAlivePath answers 200 while serving and 503 during graceful shutdown.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"
)

// Deps are the services the web layer serves.
type Deps struct {
	Auth     *auth.Service
	Users    *auth.LocalProvider
	Sessions *session.Store
	Settings *settings.Service
	Levels   gamification.Table
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	authService  *auth.Service
	users        *auth.LocalProvider
	sessions     *session.Store
}

// Start starts the web service on the given address and blocks until the server stops.
func (s *Service) Start(addr string) error {
	if err := s.App.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown fails /checkalive for the configured time, then stops the http server.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether /checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps Deps) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps.Auth == nil || deps.Users == nil || deps.Sessions == nil || deps.Settings == nil {
		panic(handler.ErrNilDepsFatalLogMsg)
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	service := &Service{
		cfg:          cfg,
		App:          app,
		fastShutDown: cfg.DevMode,
		authService:  deps.Auth,
		users:        deps.Users,
		sessions:     deps.Sessions,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recoverer.New())
	}

	accessLogger, err := accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	app.Use(accessLogger)

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPrefix)

	// public
	login.New(cfg, deps.Users, deps.Sessions).Init(api)
	logout.New(cfg, deps.Sessions).Init(api)

	// everything registered below needs a session
	protected := api.Group("", service.SessionMiddleware)
	protected.Get("/me", service.Me)

	settingshandler.New(deps.Settings, deps.Auth).Init(protected)
	academy.New(deps.Auth, deps.Levels).Init(protected)
	override.New(deps.Auth).Init(protected)

	return service, nil
}

func (s *Service) checkAlive(c fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}
