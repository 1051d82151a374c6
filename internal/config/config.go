// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON config overlay.
const EnvConfigJSON = "COLEARNHUB_CONFIG_JSON"

const (
	defaultShutDownTime    = 5
	defaultSearchMinLength = 2
	defaultSearchLimit     = 20
	defaultGatewayTimeout  = 10
	defaultRateLimitBurst  = 20

	redactedValue = "******"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode json config override")
	}

	return c, nil
}

// Redacted returns a copy of c with secrets masked, for printing.
func (c Config) Redacted() *Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}

		return redactedValue
	}

	c.DB.Password = mask(c.DB.Password)
	c.Gateway.APIKey = mask(c.Gateway.APIKey)

	return &c
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and
// fills defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.Gateway.Kind {
	case "", GatewaySQL:
		c.Gateway.Kind = GatewaySQL
	case GatewayREST:
		if c.Gateway.URL == "" {
			return errors.Wrap(ErrEmptyGatewayURL, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnknownGatewayKind, "%s: %q", invalidErrMessage, c.Gateway.Kind)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.RateLimit.Burst == 0 {
		c.Webserver.RateLimit.Burst = defaultRateLimitBurst
	}

	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = defaultGatewayTimeout
	}

	if c.Membership.SearchMinLength == 0 {
		c.Membership.SearchMinLength = defaultSearchMinLength
	}

	if c.Membership.SearchLimit == 0 {
		c.Membership.SearchLimit = defaultSearchLimit
	}

	return nil
}
