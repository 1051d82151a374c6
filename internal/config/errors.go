package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyGatewayURL error if the rest gateway is selected without a base url.
	ErrEmptyGatewayURL = errors.New("toml config gateway.url can not be empty for the rest gateway")

	// ErrUnknownGatewayKind error if gateway.kind is neither sql nor rest.
	ErrUnknownGatewayKind = errors.New("toml config gateway.kind is unknown")
)
