// Package user provides the api handlers reading a user's groups and
// searching users to invite.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/membership"
	"github.com/colearnhub/colearnhub/internal/web/handler"
)

const (
	// Path is the base path for users.
	Path = handler.RootPath + "/users"

	// ParamUserID is the route parameter of the user id.
	ParamUserID = "userID"
	// QuerySearch is the query parameter of the search term.
	QuerySearch = "q"

	// RouteSearch is the route of the user search.
	RouteSearch = Path + "/search"
	// RouteGroups is the route listing a user's groups.
	RouteGroups = Path + "/:" + ParamUserID + "/groups"
)

// Service serves the user endpoints.
type Service struct {
	cfg *config.Config
	svc *membership.Service
}

var _ handler.Service[*membership.Service] = (*Service)(nil)

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *membership.Service) {
	if router == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.svc = svc

	router.Get(RouteSearch, s.Search)
	router.Get(RouteGroups, s.Groups)
}

// Groups lists the groups the user belongs to or is invited into. A failing
// store answers with an empty list and the error message.
func (s *Service) Groups(c *fiber.Ctx) error {
	userID := c.Params(ParamUserID)

	groups, err := s.svc.ListUserGroups(c.UserContext(), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("list groups failed")
		return handler.Degraded(c, err, []membership.GroupWithMembers{})
	}

	return handler.Success(c, groups)
}

// Search finds users by username or email.
func (s *Service) Search(c *fiber.Ctx) error {
	q := c.Query(QuerySearch)

	users, err := s.svc.SearchUsers(c.UserContext(), q)
	if err != nil {
		log.Error().Err(err).Str("query", q).Msg("user search failed")
		return handler.Degraded(c, err, []models.User{})
	}

	return handler.Success(c, users)
}
