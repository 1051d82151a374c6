package membership

import (
	"github.com/pkg/errors"

	"github.com/colearnhub/colearnhub/internal/gateway"
)

var (
	// ErrInvalidGroup is returned for a group that fails validation, such as a blank name.
	ErrInvalidGroup = errors.New("invalid group")
	// ErrInvalidArgument is returned when a required user or group id is empty.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrGroupNotFound is returned when inviting into a group that does not exist.
	ErrGroupNotFound = errors.New("group not found")
	// ErrPersistence is returned when the data gateway fails. The gateway error
	// kind stays reachable with errors.Is.
	ErrPersistence = errors.New("persistence failure")
	// ErrMissingGroupID is returned when the store does not report the id of a new group.
	ErrMissingGroupID = errors.New("store returned no group id")
)

func persistence(op string, err error) error {
	return gateway.Wrap(ErrPersistence, op, err)
}
