// Package web runs the json api of the service on fiber.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/config"
	fiberlogger "github.com/colearnhub/colearnhub/internal/logger/adapter/fiber"
	"github.com/colearnhub/colearnhub/internal/membership"
	"github.com/colearnhub/colearnhub/internal/study"
	"github.com/colearnhub/colearnhub/internal/web/handler"
	"github.com/colearnhub/colearnhub/internal/web/handler/group"
	"github.com/colearnhub/colearnhub/internal/web/handler/material"
	"github.com/colearnhub/colearnhub/internal/web/handler/session"
	"github.com/colearnhub/colearnhub/internal/web/handler/user"
	"github.com/colearnhub/colearnhub/internal/web/middleware/ratelimit"
)

const (
	defaultCheckAliveURI = "/checkalive"
	// MetricsURI serves the prometheus metrics.
	MetricsURI = "/metrics"
)

// Deps are the services behind the api.
type Deps struct {
	Membership *membership.Service
	Study      *study.Service
	// Gatherer serves /metrics; nil uses the default prometheus registry.
	Gatherer prometheus.Gatherer
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	limiter      *ratelimit.Limiter
	shutdown     chan os.Signal
}

// Start starts the web service on the given address and blocks until the
// server is stopped.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan error, 1)

	go func() {
		err := s.App.Listen(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("fiber listen error")
		}

		doneFiber <- err
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	sig := <-s.shutdown
	log.Info().Msgf("shutdown request (signal: %v)", sig)

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

	if s.limiter != nil {
		s.limiter.Stop()
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Stop triggers the shutdown sequence of WaitShutdown.
func (s *Service) Stop() {
	s.shutdown <- syscall.SIGTERM
}

// Alive reports whether the checkalive endpoint answers with success.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, deps Deps) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps.Membership == nil || deps.Study == nil {
		panic("membership and study services cannot be nil")
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	checkAliveURI := cfg.Webserver.CheckAliveURI
	if checkAliveURI == "" {
		checkAliveURI = defaultCheckAliveURI
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   errorHandler,
		},
	)

	service := &Service{
		cfg:      cfg,
		App:      app,
		shutdown: make(chan os.Signal, 1),
	}
	service.alive.Store(true)

	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: checkAliveURI,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	if cfg.Webserver.RateLimit.Enabled {
		service.limiter = ratelimit.New(cfg.Webserver.RateLimit.RPS, cfg.Webserver.RateLimit.Burst)

		app.Use(service.limiter.Handler(func(c *fiber.Ctx) bool {
			return c.Path() == checkAliveURI || c.Path() == MetricsURI
		}))
	}

	app.Get(checkAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get(MetricsURI, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// init handlers (they register their own routes)
	new(group.Service).Init(app, cfg, deps.Membership)
	new(user.Service).Init(app, cfg, deps.Membership)
	new(session.Service).Init(app, cfg, deps.Study)
	new(material.Service).Init(app, cfg, deps.Study)

	return service
}

// errorHandler answers unhandled errors, such as unknown routes, with the api envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(handler.Response{Code: code, Message: err.Error()})
}
