package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/colearnhub/colearnhub/internal/gateway"
)

// APIError is the error document PostgREST answers with.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}

	return fmt.Sprintf("http %d: %s: %s", e.Status, e.Code, e.Message)
}

func statusError(op gateway.Op, table gateway.Table, status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}

	kind := kindForStatus(status)
	// unique_violation
	if apiErr.Code == "23505" {
		kind = gateway.ErrConflict
	}

	return gateway.NewError(op, table, kind, apiErr)
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusNotFound, status == http.StatusNotAcceptable:
		return gateway.ErrNotFound
	case status == http.StatusConflict:
		return gateway.ErrConflict
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return gateway.ErrPermissionDenied
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity,
		status == http.StatusRequestEntityTooLarge:
		return gateway.ErrInvalidRequest
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests,
		status >= http.StatusInternalServerError:
		return gateway.ErrTransient
	default:
		return gateway.ErrInternal
	}
}
