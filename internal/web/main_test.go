package web

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway"
	"github.com/colearnhub/colearnhub/internal/gateway/sqlgw"
	"github.com/colearnhub/colearnhub/internal/membership"
	"github.com/colearnhub/colearnhub/internal/study"
	"github.com/colearnhub/colearnhub/internal/web/handler"
)

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	reg := prometheus.NewRegistry()
	gw := gateway.Instrument(sqlgw.New(db), reg)

	return New(cfg, Deps{
		Membership: membership.New(gw),
		Study:      study.New(gw),
		Gatherer:   reg,
	})
}

func baseConfig() *config.Config {
	return &config.Config{
		Title: "CoLearnHub",
		Webserver: config.Webserver{
			Port:          8080,
			URL:           "http://localhost:8080",
			CheckAliveURI: "/checkalive",
		},
	}
}

func body(t *testing.T, app *fiber.App, method, target string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(b)
}

func TestCheckAlive(t *testing.T) {
	s := newTestService(t, baseConfig())

	status, text := body(t, s.App, fiber.MethodGet, "/checkalive")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", text)
	assert.True(t, s.Alive())

	s.alive.Store(false)

	status, _ = body(t, s.App, fiber.MethodGet, "/checkalive")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestMetricsExposeGatewayCalls(t *testing.T) {
	s := newTestService(t, baseConfig())

	status, _ := body(t, s.App, fiber.MethodGet, "/api/users/search?q=al")
	require.Equal(t, fiber.StatusOK, status)

	status, text := body(t, s.App, fiber.MethodGet, MetricsURI)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, text, `colearnhub_gateway_calls_total{op="select",outcome="ok",table="Users"} 1`)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	s := newTestService(t, baseConfig())

	status, text := body(t, s.App, fiber.MethodGet, "/api/nope")
	assert.Equal(t, fiber.StatusNotFound, status)

	var env handler.Response
	require.NoError(t, json.Unmarshal([]byte(text), &env))
	assert.Equal(t, fiber.StatusNotFound, env.Code)
}

func TestRoutesAreRegistered(t *testing.T) {
	s := newTestService(t, baseConfig())

	status, _ := body(t, s.App, fiber.MethodGet, "/api/users/u1/groups")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = body(t, s.App, fiber.MethodGet, "/api/users/u1/sessions")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = body(t, s.App, fiber.MethodGet, "/api/materials/m1/rating")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = body(t, s.App, fiber.MethodPost, "/api/groups/g1/members/u1/accept")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRateLimitSkipsCheckAlive(t *testing.T) {
	cfg := baseConfig()
	cfg.Webserver.RateLimit = config.RateLimit{Enabled: true, RPS: 0.001, Burst: 1}

	s := newTestService(t, cfg)
	t.Cleanup(s.limiter.Stop)

	status, _ := body(t, s.App, fiber.MethodGet, "/api/users/search?q=a")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = body(t, s.App, fiber.MethodGet, "/api/users/search?q=a")
	assert.Equal(t, fiber.StatusTooManyRequests, status)

	for range 3 {
		status, _ = body(t, s.App, fiber.MethodGet, "/checkalive")
		assert.Equal(t, fiber.StatusOK, status)
	}
}

func TestGracefulShutdown(t *testing.T) {
	cfg := baseConfig()
	cfg.Webserver.ShutDownTime = 0
	s := newTestService(t, cfg)

	shutdownDone := make(chan struct{})

	go func() {
		s.WaitShutdown()
		close(shutdownDone)
	}()

	s.Stop()

	select {
	case <-shutdownDone:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not finish")
	}

	assert.False(t, s.Alive(), "checkalive fails once shutdown started")
}

func TestResponsesCarryRequestID(t *testing.T) {
	s := newTestService(t, baseConfig())

	resp, err := s.App.Test(httptest.NewRequest(fiber.MethodGet, "/checkalive", nil), -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
