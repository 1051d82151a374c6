package material

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway/sqlgw"
	"github.com/colearnhub/colearnhub/internal/study"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
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

	app := fiber.New()
	s := &Service{}
	s.Init(app, &config.Config{}, study.New(sqlgw.New(db)))

	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func TestRateAndSummary(t *testing.T) {
	app := setupApp(t)

	status, _ := do(t, app, fiber.MethodPut, Path+"/m1/ratings/u1", `{"score":5}`)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = do(t, app, fiber.MethodPut, Path+"/m1/ratings/u2", `{"score":2}`)
	require.Equal(t, fiber.StatusOK, status)

	status, env := do(t, app, fiber.MethodPut, Path+"/m1/ratings/u2", `{"score":4}`)
	require.Equal(t, fiber.StatusOK, status)

	var rating models.Rating
	require.NoError(t, json.Unmarshal(env.Data, &rating))
	assert.Equal(t, 4, rating.Score)

	status, env = do(t, app, fiber.MethodGet, Path+"/m1/rating", "")
	require.Equal(t, fiber.StatusOK, status)

	var sum study.RatingSummary
	require.NoError(t, json.Unmarshal(env.Data, &sum))
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 4.5, sum.Average, 1e-9)
}

func TestRateRejectsBadScore(t *testing.T) {
	app := setupApp(t)

	for _, body := range []string{`{"score":0}`, `{"score":6}`, `{"score":"x"}`} {
		status, env := do(t, app, fiber.MethodPut, Path+"/m1/ratings/u1", body)
		assert.Equal(t, fiber.StatusBadRequest, status, body)
		assert.Equal(t, fiber.StatusBadRequest, env.Code, body)
	}
}

func TestSummaryWithoutRatings(t *testing.T) {
	status, env := do(t, setupApp(t), fiber.MethodGet, Path+"/fresh/rating", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"material_id":"fresh","average":0,"count":0}`, string(env.Data))
}
