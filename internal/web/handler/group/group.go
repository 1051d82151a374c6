// Package group provides the api handlers of the group membership lifecycle.
package group

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/colearnhub/colearnhub/internal/config"
	"github.com/colearnhub/colearnhub/internal/membership"
	"github.com/colearnhub/colearnhub/internal/web/handler"
)

const (
	// Path is the base path for groups.
	Path = handler.RootPath + "/groups"

	// ParamGroupID is the route parameter of the group id.
	ParamGroupID = "groupID"
	// ParamUserID is the route parameter of the user id.
	ParamUserID = "userID"

	// RouteInvites is the route for inviting users into a group.
	RouteInvites = Path + "/:" + ParamGroupID + "/invites"
	// RouteMember is the route of one membership.
	RouteMember = Path + "/:" + ParamGroupID + "/members/:" + ParamUserID
	// RouteAccept is the route for accepting an invitation.
	RouteAccept = RouteMember + "/accept"
	// RouteReject is the route for declining an invitation.
	RouteReject = RouteMember + "/reject"
)

// Service serves the group endpoints.
type Service struct {
	cfg       *config.Config
	svc       *membership.Service
	validator *validator.Validate
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
	s.validator = validator.New()

	router.Post(Path, s.Create)
	router.Post(RouteInvites, s.Invite)
	router.Post(RouteAccept, s.Accept)
	router.Post(RouteReject, s.Reject)
	router.Delete(RouteMember, s.Remove)
}

// Create creates a group owned by owner_id and invites invitee_ids.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := c.BodyParser(&in); err != nil {
		return handler.BadRequest(c, handler.ErrInvalidBody)
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return handler.BadRequest(c, handler.ErrValidationPrefix+err.Error())
	}

	res, err := s.svc.CreateGroup(c.UserContext(), membership.CreateGroupInput{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		InviteeIDs:  in.InviteeIDs,
	})
	if err != nil {
		log.Error().Err(err).Str("owner", in.OwnerID).Msg("create group failed")
		return handler.Error(c, err)
	}

	return handler.Created(c, res)
}

// Invite adds pending memberships for user_ids.
func (s *Service) Invite(c *fiber.Ctx) error {
	var in inviteInput
	if err := c.BodyParser(&in); err != nil {
		return handler.BadRequest(c, handler.ErrInvalidBody)
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.BadRequest(c, handler.ErrValidationPrefix+err.Error())
	}

	res, err := s.svc.InviteMembers(c.UserContext(), c.Params(ParamGroupID), in.UserIDs)
	if err != nil {
		log.Error().Err(err).Str("group", c.Params(ParamGroupID)).Msg("invite failed")
		return handler.Error(c, err)
	}

	return handler.Success(c, res)
}

// Accept makes the user an active member of the group.
func (s *Service) Accept(c *fiber.Ctx) error {
	return s.membershipAction(c, "accept invitation", s.svc.AcceptInvite)
}

// Reject declines a pending invitation.
func (s *Service) Reject(c *fiber.Ctx) error {
	return s.membershipAction(c, "reject invitation", s.svc.RejectInvite)
}

// Remove deletes the membership, whether the user leaves or gets removed.
func (s *Service) Remove(c *fiber.Ctx) error {
	return s.membershipAction(c, "remove member", s.svc.RemoveMember)
}

type action func(ctx context.Context, userID, groupID string) error

func (s *Service) membershipAction(c *fiber.Ctx, name string, fn action) error {
	userID := c.Params(ParamUserID)
	groupID := c.Params(ParamGroupID)

	if err := fn(c.UserContext(), userID, groupID); err != nil {
		log.Error().Err(err).Str("user", userID).Str("group", groupID).Msg(name + " failed")
		return handler.Error(c, err)
	}

	return handler.Success(c, fiber.Map{"user_id": userID, "group_id": groupID})
}
