package study

import (
	"github.com/pkg/errors"

	"github.com/colearnhub/colearnhub/internal/gateway"
)

var (
	// ErrInvalidScore is returned for a rating outside 1..5.
	ErrInvalidScore = errors.New("score must be between 1 and 5")
	// ErrInvalidArgument is returned when a required id is empty.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPersistence is returned when the data gateway fails.
	ErrPersistence = errors.New("persistence failure")
)

func persistence(op string, err error) error {
	return gateway.Wrap(ErrPersistence, op, err)
}
