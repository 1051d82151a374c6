package study

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway"
	"github.com/colearnhub/colearnhub/internal/gateway/sqlgw"
)

var now = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func setupGateway(t *testing.T) gateway.Gateway {
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

	return sqlgw.New(db)
}

func session(title string, group *string, creator string, start, end time.Duration) models.StudySession {
	return models.StudySession{
		Title:     title,
		GroupID:   group,
		CreatorID: creator,
		StartTime: now.Add(start),
		EndTime:   now.Add(end),
	}
}

func TestClassify(t *testing.T) {
	s := session("x", nil, "u1", 0, time.Hour)

	tests := []struct {
		name string
		at   time.Time
		want Status
	}{
		{"before start", now.Add(-time.Second), StatusUpcoming},
		{"at start", now, StatusLive},
		{"inside", now.Add(30 * time.Minute), StatusLive},
		{"at end", now.Add(time.Hour), StatusPast},
		{"after end", now.Add(2 * time.Hour), StatusPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(s, tt.at))
		})
	}
}

func TestListUserSessions(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	member := "g-member"
	pending := "g-pending"

	rows := []models.GroupMember{
		{UserID: "u1", GroupID: member, Accept: models.Bool(true)},
		{UserID: "u1", GroupID: pending},
	}
	require.NoError(t, gw.Insert(ctx, models.TableGroupMembers, &rows))

	sessions := []models.StudySession{
		session("later", &member, "u2", 48*time.Hour, 49*time.Hour),
		session("soon", &member, "u2", time.Hour, 2*time.Hour),
		session("now", &member, "u2", -time.Hour, time.Hour),
		session("yesterday", &member, "u2", -26*time.Hour, -25*time.Hour),
		session("last week", nil, "u1", -7*24*time.Hour, -7*24*time.Hour+time.Hour),
		session("hidden pending", &pending, "u2", time.Hour, 2*time.Hour),
		session("stranger", nil, "u3", time.Hour, 2*time.Hour),
	}
	require.NoError(t, gw.Insert(ctx, models.TableStudySessions, &sessions))

	svc := New(gw, WithClock(func() time.Time { return now }))

	got, err := svc.ListUserSessions(ctx, "u1")
	require.NoError(t, err)

	titles := func(views []SessionView) []string {
		out := make([]string, 0, len(views))
		for _, v := range views {
			out = append(out, v.Title)
		}

		return out
	}

	assert.Equal(t, []string{"now"}, titles(got.Live))
	assert.Equal(t, []string{"soon", "later"}, titles(got.Upcoming))
	assert.Equal(t, []string{"yesterday", "last week"}, titles(got.Past))
	assert.Equal(t, StatusLive, got.Live[0].Status)

	_, err = svc.ListUserSessions(ctx, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListUserSessionsCreatorOnly(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()

	s := session("solo", nil, "u5", time.Hour, 2*time.Hour)
	require.NoError(t, gw.Insert(ctx, models.TableStudySessions, &s))

	got, err := New(gw, WithClock(func() time.Time { return now })).ListUserSessions(ctx, "u5")
	require.NoError(t, err)
	require.Len(t, got.Upcoming, 1)
	assert.Empty(t, got.Live)
	assert.Empty(t, got.Past)
}

func TestRateMaterial(t *testing.T) {
	gw := setupGateway(t)
	ctx := context.Background()
	svc := New(gw, WithClock(func() time.Time { return now }))

	for _, bad := range []int{0, 6, -1} {
		_, err := svc.RateMaterial(ctx, "u1", "m1", bad)
		require.ErrorIs(t, err, ErrInvalidScore)
	}

	first, err := svc.RateMaterial(ctx, "u1", "m1", 4)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	again, err := svc.RateMaterial(ctx, "u1", "m1", 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 2, again.Score)

	_, err = svc.RateMaterial(ctx, "u2", "m1", 5)
	require.NoError(t, err)

	sum, err := svc.MaterialRating(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.InDelta(t, 3.5, sum.Average, 1e-9)

	sum, err = svc.MaterialRating(ctx, "unrated")
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
	assert.Zero(t, sum.Average)

	_, err = svc.RateMaterial(ctx, "", "m1", 3)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSummarize(t *testing.T) {
	sum := Summarize("m", []models.Rating{{Score: 1}, {Score: 2}, {Score: 4}})
	assert.Equal(t, 3, sum.Count)
	assert.InDelta(t, 7.0/3.0, sum.Average, 1e-9)
	assert.Equal(t, RatingSummary{MaterialID: "m"}, Summarize("m", nil))
}
