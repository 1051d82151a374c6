// Package daemon wires configuration, data gateway, services and the web api.
package daemon

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/db"
	"github.com/colearnhub/colearnhub/internal/gateway"
	"github.com/colearnhub/colearnhub/internal/gateway/rest"
	"github.com/colearnhub/colearnhub/internal/gateway/sqlgw"
	"github.com/colearnhub/colearnhub/internal/membership"
	"github.com/colearnhub/colearnhub/internal/study"
	"github.com/colearnhub/colearnhub/internal/web"
)

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves the api until SIGINT or SIGTERM.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// Web returns the web service.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// New creates a new Daemon. Metrics go to reg, or to the default prometheus
// registry when reg is nil.
func New(cfg *config.Config, reg *prometheus.Registry) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)

	if reg != nil {
		registerer, gatherer = reg, reg
	}

	gw, err := newGateway(cfg)
	if err != nil {
		return nil, err
	}

	gw = gateway.Instrument(gw, registerer)

	deps := web.Deps{
		Membership: membership.New(gw,
			membership.WithSearch(cfg.Membership.SearchMinLength, cfg.Membership.SearchLimit)),
		Study:    study.New(gw),
		Gatherer: gatherer,
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, deps),
	}, nil
}

func newGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.Gateway.Kind {
	case config.GatewayREST:
		log.Info().Str("url", cfg.Gateway.URL).Msg("using rest data gateway")

		client, err := rest.New(cfg.Gateway.URL, cfg.Gateway.APIKey,
			rest.WithTimeout(time.Duration(cfg.Gateway.Timeout)*time.Second),
			rest.WithMaxRetries(cfg.Gateway.MaxRetries),
		)
		if err != nil {
			return nil, err
		}

		return client, nil
	case config.GatewaySQL, "":
		conn, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}

		if err := db.Migrate(conn); err != nil {
			return nil, err
		}

		if cfg.DevMode {
			if err := seed(conn); err != nil {
				return nil, err
			}
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("using sql data gateway")

		return sqlgw.New(conn), nil
	default:
		return nil, errors.Wrapf(config.ErrUnknownGatewayKind, "kind %q", cfg.Gateway.Kind)
	}
}

// Migrate creates or updates the sql schema.
func Migrate(cfg *config.Config) error {
	if cfg == nil {
		return ErrNilConfig
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}

	return db.Migrate(conn)
}
