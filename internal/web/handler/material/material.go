// Package material provides the api handlers of study material ratings.
package material

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/study"
	"github.com/colearnhub/colearnhub/internal/web/handler"
)

const (
	// Path is the base path for materials.
	Path = handler.RootPath + "/materials"

	// ParamMaterialID is the route parameter of the material id.
	ParamMaterialID = "materialID"
	// ParamUserID is the route parameter of the rating user.
	ParamUserID = "userID"

	// RouteRate is the route storing a user's rating.
	RouteRate = Path + "/:" + ParamMaterialID + "/ratings/:" + ParamUserID
	// RouteSummary is the route of the rating summary.
	RouteSummary = Path + "/:" + ParamMaterialID + "/rating"
)

// Service serves the material endpoints.
type Service struct {
	cfg *config.Config
	svc *study.Service
}

var _ handler.Service[*study.Service] = (*Service)(nil)

type rateInput struct {
	Score int `json:"score"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, svc *study.Service) {
	if router == nil || cfg == nil || svc == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.svc = svc

	router.Put(RouteRate, s.Rate)
	router.Get(RouteSummary, s.Summary)
}

// Rate stores the user's score for the material.
func (s *Service) Rate(c *fiber.Ctx) error {
	var in rateInput
	if err := c.BodyParser(&in); err != nil {
		return handler.BadRequest(c, handler.ErrInvalidBody)
	}

	materialID := c.Params(ParamMaterialID)
	userID := c.Params(ParamUserID)

	rating, err := s.svc.RateMaterial(c.UserContext(), userID, materialID, in.Score)
	if err != nil {
		log.Error().Err(err).Str("material", materialID).Str("user", userID).Msg("rate material failed")
		return handler.Error(c, err)
	}

	return handler.Success(c, rating)
}

// Summary returns the average score and the number of ratings.
func (s *Service) Summary(c *fiber.Ctx) error {
	materialID := c.Params(ParamMaterialID)

	sum, err := s.svc.MaterialRating(c.UserContext(), materialID)
	if err != nil {
		log.Error().Err(err).Str("material", materialID).Msg("load rating failed")
		return handler.Error(c, err)
	}

	return handler.Success(c, sum)
}
