package config

import (
	"github.com/colearnhub/colearnhub/internal/logger"
)

// Gateway kinds.
const (
	GatewaySQL  = "sql"
	GatewayREST = "rest"
)

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Gateway    Gateway
	Log        logger.Log
	Membership Membership
	Title      string
	Webserver  Webserver
}

// Gateway selects and configures the data gateway.
type Gateway struct {
	Kind       string // sql uses DB, rest talks to a PostgREST endpoint
	URL        string // base url of the rest endpoint, e.g. https://xyz.supabase.co/rest/v1
	APIKey     string // sent as apikey and bearer token
	Timeout    int    // per request timeout in seconds
	MaxRetries int    // retries on transient failures
}

// Membership tunes the group membership logic.
type Membership struct {
	SearchMinLength int // queries shorter than this skip the gateway
	SearchLimit     int // max users returned by a search
}

// RateLimit configures the per client ip limiter of the api.
type RateLimit struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool      // disable recover middleware
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown
	URL            string    // base url for the webserver
	CheckAliveURI  string    // liveness endpoint, not access logged when Log.DisableCheckAlive is set
	RateLimit      RateLimit // api rate limiting
}
