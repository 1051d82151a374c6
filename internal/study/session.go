// Package study holds the study tools next to the groups: scheduled
// sessions and material ratings.
package study

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway"
)

// Status is where a session stands relative to now.
type Status string

// Session states.
const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusPast     Status = "past"
)

// Classify places s relative to now. The start is inclusive, the end exclusive.
func Classify(s models.StudySession, now time.Time) Status {
	switch {
	case now.Before(s.StartTime):
		return StatusUpcoming
	case now.Before(s.EndTime):
		return StatusLive
	default:
		return StatusPast
	}
}

// SessionView is a session with its state.
type SessionView struct {
	models.StudySession
	Status Status `json:"status"`
}

// Sessions partitions a user's sessions by state.
type Sessions struct {
	Live     []SessionView `json:"live"`
	Upcoming []SessionView `json:"upcoming"`
	Past     []SessionView `json:"past"`
}

// Service runs study operations against a data gateway.
type Service struct {
	gw  gateway.Gateway
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service using gw.
func New(gw gateway.Gateway, opts ...Option) *Service {
	s := &Service{gw: gw, now: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ListUserSessions returns the sessions of the groups the user is an active
// member of plus the sessions the user created. Upcoming sessions are sorted
// by start, past ones by end with the most recent first.
func (s *Service) ListUserSessions(ctx context.Context, userID string) (*Sessions, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "user id is empty")
	}

	var memberships []models.GroupMember
	if err := s.gw.Select(ctx, models.TableGroupMembers, &memberships,
		gateway.Where(gateway.Eq("user_id", userID), gateway.Eq("accept", true))); err != nil {
		return nil, persistence("load memberships", err)
	}

	groupIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		groupIDs = append(groupIDs, m.GroupID)
	}

	scope := gateway.Eq("creator_id", userID)
	if len(groupIDs) > 0 {
		scope = gateway.Or(gateway.In("group_id", groupIDs), scope)
	}

	var rows []models.StudySession
	if err := s.gw.Select(ctx, models.TableStudySessions, &rows, gateway.Where(scope)); err != nil {
		return nil, persistence("load sessions", err)
	}

	return partition(rows, s.now()), nil
}

func partition(rows []models.StudySession, now time.Time) *Sessions {
	out := &Sessions{Live: []SessionView{}, Upcoming: []SessionView{}, Past: []SessionView{}}

	for _, r := range rows {
		v := SessionView{StudySession: r, Status: Classify(r, now)}

		switch v.Status {
		case StatusLive:
			out.Live = append(out.Live, v)
		case StatusUpcoming:
			out.Upcoming = append(out.Upcoming, v)
		case StatusPast:
			out.Past = append(out.Past, v)
		}
	}

	sort.SliceStable(out.Live, func(i, j int) bool {
		return out.Live[i].EndTime.Before(out.Live[j].EndTime)
	})
	sort.SliceStable(out.Upcoming, func(i, j int) bool {
		return out.Upcoming[i].StartTime.Before(out.Upcoming[j].StartTime)
	})
	sort.SliceStable(out.Past, func(i, j int) bool {
		return out.Past[i].EndTime.After(out.Past[j].EndTime)
	})

	return out
}
