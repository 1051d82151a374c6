// Package session provides the api handler of a user's study sessions.
package session

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/study"
	"github.com/colearnhub/colearnhub/internal/web/handler"
)

const (
	// ParamUserID is the route parameter of the user id.
	ParamUserID = "userID"

	// Path is the route listing a user's sessions.
	Path = handler.RootPath + "/users/:" + ParamUserID + "/sessions"
)

// Service serves the session endpoint.
type Service struct {
	cfg *config.Config
	svc *study.Service
}

var _ handler.Service[*study.Service] = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *study.Service) {
	if router == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.svc = svc

	router.Get(Path, s.List)
}

// List returns the user's sessions split into live, upcoming and past.
func (s *Service) List(c *fiber.Ctx) error {
	userID := c.Params(ParamUserID)

	sessions, err := s.svc.ListUserSessions(c.UserContext(), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("list sessions failed")
		return handler.Degraded(c, err, &study.Sessions{
			Live:     []study.SessionView{},
			Upcoming: []study.SessionView{},
			Past:     []study.SessionView{},
		})
	}

	return handler.Success(c, sessions)
}
