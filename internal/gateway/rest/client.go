// Package rest implements gateway.Gateway against a PostgREST endpoint such
// as the Supabase REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/gateway"
)

const (
	defaultTimeout = 10 * time.Second
	defaultBackoff = 200 * time.Millisecond
	maxErrorBody   = 4 << 10
)

// ErrInvalidURL is returned by New for a base url that is not absolute.
var ErrInvalidURL = errors.New("rest gateway needs an absolute base url")

// Client is a PostgREST backed gateway.
type Client struct {
	base       *url.URL
	apiKey     string
	http       *http.Client
	maxRetries int
	backoff    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the http client; its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMaxRetries sets how often a transient failure is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the base delay; attempt n waits n times the base.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// New returns a Client for the REST root baseURL, for example
// https://project.supabase.co/rest/v1.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "url %q", baseURL)
	}

	c := &Client{
		base:    u,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
		backoff: defaultBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Select implements gateway.Gateway.
func (c *Client) Select(ctx context.Context, table gateway.Table, dest any, q gateway.Query) error {
	params := url.Values{}
	params.Set("select", "*")

	if err := encodeFilters(params, q.Filters); err != nil {
		return gateway.NewError(gateway.OpSelect, table, gateway.ErrInvalidRequest, err)
	}

	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}

		params.Set("order", q.OrderBy+"."+dir)
	}

	if q.Limit > 0 {
		params.Set("limit", formatInt(q.Limit))
	}

	body, err := c.do(ctx, gateway.OpSelect, table, http.MethodGet, params, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return gateway.NewError(gateway.OpSelect, table, gateway.ErrInternal, errors.Wrap(err, "decode rows"))
	}

	return nil
}

// Insert implements gateway.Gateway. The representation returned by the
// server is decoded back into rows.
func (c *Client) Insert(ctx context.Context, table gateway.Table, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return gateway.NewError(gateway.OpInsert, table, gateway.ErrInvalidRequest, err)
	}

	body, err := c.do(ctx, gateway.OpInsert, table, http.MethodPost, url.Values{}, payload)
	if err != nil {
		return err
	}

	if err := decodeInto(body, rows); err != nil {
		return gateway.NewError(gateway.OpInsert, table, gateway.ErrInternal, err)
	}

	return nil
}

// Update implements gateway.Gateway.
func (c *Client) Update(ctx context.Context, table gateway.Table, patch gateway.Patch,
	filters ...gateway.Filter,
) (int64, error) {
	if err := gateway.RequireFilters(gateway.OpUpdate, table, filters); err != nil {
		return 0, err
	}

	payload, err := json.Marshal(patch)
	if err != nil {
		return 0, gateway.NewError(gateway.OpUpdate, table, gateway.ErrInvalidRequest, err)
	}

	return c.write(ctx, gateway.OpUpdate, table, http.MethodPatch, filters, payload)
}

// Delete implements gateway.Gateway.
func (c *Client) Delete(ctx context.Context, table gateway.Table, filters ...gateway.Filter) (int64, error) {
	if err := gateway.RequireFilters(gateway.OpDelete, table, filters); err != nil {
		return 0, err
	}

	return c.write(ctx, gateway.OpDelete, table, http.MethodDelete, filters, nil)
}

func (c *Client) write(ctx context.Context, op gateway.Op, table gateway.Table, method string,
	filters []gateway.Filter, payload []byte,
) (int64, error) {
	params := url.Values{}
	if err := encodeFilters(params, filters); err != nil {
		return 0, gateway.NewError(op, table, gateway.ErrInvalidRequest, err)
	}

	body, err := c.do(ctx, op, table, method, params, payload)
	if err != nil {
		return 0, err
	}

	var affected []json.RawMessage
	if err := json.Unmarshal(body, &affected); err != nil {
		return 0, gateway.NewError(op, table, gateway.ErrInternal, errors.Wrap(err, "decode representation"))
	}

	return int64(len(affected)), nil
}

// do sends the request, retrying transient failures. Inserts are only retried
// when the server signals it did not process the request.
func (c *Client) do(ctx context.Context, op gateway.Op, table gateway.Table, method string,
	params url.Values, payload []byte,
) ([]byte, error) {
	endpoint := c.base.JoinPath(string(table))
	endpoint.RawQuery = params.Encode()

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, time.Duration(attempt)*c.backoff); err != nil {
				return nil, gateway.NewError(op, table, gateway.ErrTransient, err)
			}

			log.Debug().Str("table", string(table)).Str("op", string(op)).Int("attempt", attempt).
				Err(lastErr).Msg("retrying gateway request")
		}

		body, status, err := c.send(ctx, method, endpoint.String(), payload)
		if err == nil && status < http.StatusMultipleChoices {
			return body, nil
		}

		if err != nil {
			lastErr = gateway.NewError(op, table, gateway.ErrTransient, err)
			if op == gateway.OpInsert || ctx.Err() != nil {
				return nil, lastErr
			}

			continue
		}

		lastErr = statusError(op, table, status, body)
		if !retryable(op, status) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Accept", "application/json")

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

func retryable(op gateway.Op, status int) bool {
	if op == gateway.OpInsert {
		return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
	}

	return errors.Is(kindForStatus(status), gateway.ErrTransient)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// decodeInto writes a representation array back into rows, which is either a
// pointer to a slice or a pointer to a single model.
func decodeInto(body []byte, rows any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	v := reflect.ValueOf(rows)
	if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice {
		return errors.Wrap(json.Unmarshal(body, rows), "decode representation")
	}

	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err != nil {
		return errors.Wrap(err, "decode representation")
	}

	if len(list) == 0 {
		return nil
	}

	return errors.Wrap(json.Unmarshal(list[0], rows), "decode representation")
}
