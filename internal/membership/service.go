// Package membership implements the group membership lifecycle: creating
// groups, inviting users, answering invitations, leaving and listing groups.
package membership

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/colearnhub/colearnhub/internal/db/models"
	"github.com/colearnhub/colearnhub/internal/gateway"
)

const (
	defaultSearchMinLength = 2
	defaultSearchLimit     = 20
)

// Service runs membership operations against a data gateway.
type Service struct {
	gw              gateway.Gateway
	now             func() time.Time
	validate        *validator.Validate
	searchMinLength int
	searchLimit     int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSearch sets the minimum query length in runes and the result limit of SearchUsers.
func WithSearch(minLength, limit int) Option {
	return func(s *Service) {
		if minLength > 0 {
			s.searchMinLength = minLength
		}

		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

// New returns a Service using gw.
func New(gw gateway.Gateway, opts ...Option) *Service {
	s := &Service{
		gw:              gw,
		now:             time.Now,
		validate:        validator.New(),
		searchMinLength: defaultSearchMinLength,
		searchLimit:     defaultSearchLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateGroup stores the group, the owner's active membership and one pending
// membership per invitee. Invitation failures do not fail the call; they are
// reported in the result.
func (s *Service) CreateGroup(ctx context.Context, in CreateGroupInput) (*CreateGroupResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.OwnerID = strings.TrimSpace(in.OwnerID)

	if err := s.validate.Struct(in); err != nil {
		return nil, errors.Wrap(ErrInvalidGroup, err.Error())
	}

	now := s.now().UTC()
	group := models.Group{
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     in.OwnerID,
		CreatedAt:   now,
	}

	if err := s.gw.Insert(ctx, models.TableGroups, &group); err != nil {
		return nil, persistence("create group", err)
	}

	if group.ID == "" {
		return nil, persistence("create group", ErrMissingGroupID)
	}

	owner := models.GroupMember{
		UserID:   in.OwnerID,
		GroupID:  group.ID,
		Accept:   models.Bool(true),
		JoinedAt: now,
	}
	if err := s.gw.Insert(ctx, models.TableGroupMembers, &owner); err != nil {
		s.compensateGroup(ctx, group.ID)

		return nil, persistence("add group owner", err)
	}

	result := &CreateGroupResult{Group: group, Invited: []string{}, FailedInvites: []FailedInvite{}}

	for _, userID := range distinct(in.InviteeIDs, in.OwnerID) {
		if err := s.insertPending(ctx, group.ID, userID, now); err != nil {
			log.Warn().Err(err).Str("group", group.ID).Str("user", userID).Msg("invitation not stored")

			result.FailedInvites = append(result.FailedInvites, FailedInvite{UserID: userID, Reason: err.Error()})

			continue
		}

		result.Invited = append(result.Invited, userID)
	}

	return result, nil
}

func (s *Service) compensateGroup(ctx context.Context, groupID string) {
	if _, err := s.gw.Delete(ctx, models.TableGroups, gateway.Eq("id", groupID)); err != nil {
		log.Error().Err(err).Str("group", groupID).Msg("failed to remove group without owner")
	}
}

func (s *Service) insertPending(ctx context.Context, groupID, userID string, now time.Time) error {
	m := models.GroupMember{UserID: userID, GroupID: groupID, JoinedAt: now}

	return s.gw.Insert(ctx, models.TableGroupMembers, &m)
}

// InviteMembers adds a pending membership for every user not yet in the group.
func (s *Service) InviteMembers(ctx context.Context, groupID string, userIDs []string) (*InviteResult, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "group id is empty")
	}

	var groups []models.Group
	if err := s.gw.Select(ctx, models.TableGroups, &groups,
		gateway.Where(gateway.Eq("id", groupID)).Take(1)); err != nil {
		return nil, persistence("load group", err)
	}

	if len(groups) == 0 {
		return nil, errors.Wrapf(ErrGroupNotFound, "group %s", groupID)
	}

	result := &InviteResult{Invited: []string{}, Duplicates: []string{}, Failed: []FailedInvite{}}

	ids := distinct(userIDs, "")
	if len(ids) == 0 {
		return result, nil
	}

	var existing []models.GroupMember
	if err := s.gw.Select(ctx, models.TableGroupMembers, &existing,
		gateway.Where(gateway.Eq("group_id", groupID), gateway.In("user_id", ids))); err != nil {
		return nil, persistence("load memberships", err)
	}

	present := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		present[m.UserID] = struct{}{}
	}

	now := s.now().UTC()

	for _, userID := range ids {
		if _, ok := present[userID]; ok {
			result.Duplicates = append(result.Duplicates, userID)
			continue
		}

		err := s.insertPending(ctx, groupID, userID, now)

		switch {
		case err == nil:
			result.Invited = append(result.Invited, userID)
		case errors.Is(err, gateway.ErrConflict):
			result.Duplicates = append(result.Duplicates, userID)
		default:
			log.Warn().Err(err).Str("group", groupID).Str("user", userID).Msg("invitation not stored")

			result.Failed = append(result.Failed, FailedInvite{UserID: userID, Reason: err.Error()})
		}
	}

	return result, nil
}

// AcceptInvite turns the user's membership of the group active and refreshes
// its join time. A missing membership is not an error.
func (s *Service) AcceptInvite(ctx context.Context, userID, groupID string) error {
	if err := requireIDs(userID, groupID); err != nil {
		return err
	}

	patch := gateway.Patch{"accept": true, "joined_at": s.now().UTC()}
	if _, err := s.gw.Update(ctx, models.TableGroupMembers, patch, memberFilters(userID, groupID)...); err != nil {
		return persistence("accept invitation", err)
	}

	return nil
}

// RejectInvite deletes the user's membership of the group while it is still
// pending. Active memberships are left alone.
func (s *Service) RejectInvite(ctx context.Context, userID, groupID string) error {
	if err := requireIDs(userID, groupID); err != nil {
		return err
	}

	filters := append(memberFilters(userID, groupID), gateway.IsNull("accept"))
	if _, err := s.gw.Delete(ctx, models.TableGroupMembers, filters...); err != nil {
		return persistence("reject invitation", err)
	}

	return nil
}

// RemoveMember deletes the user's membership of the group whatever its state.
func (s *Service) RemoveMember(ctx context.Context, userID, groupID string) error {
	if err := requireIDs(userID, groupID); err != nil {
		return err
	}

	if _, err := s.gw.Delete(ctx, models.TableGroupMembers, memberFilters(userID, groupID)...); err != nil {
		return persistence("remove member", err)
	}

	return nil
}

// LeaveGroup is RemoveMember called by the member.
func (s *Service) LeaveGroup(ctx context.Context, userID, groupID string) error {
	return s.RemoveMember(ctx, userID, groupID)
}

// ListUserGroups returns every group the user is a member of or invited into,
// in the order of the user's memberships, each with all of its members.
func (s *Service) ListUserGroups(ctx context.Context, userID string) ([]GroupWithMembers, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "user id is empty")
	}

	var own []models.GroupMember
	if err := s.gw.Select(ctx, models.TableGroupMembers, &own,
		gateway.Where(gateway.Eq("user_id", userID))); err != nil {
		return nil, persistence("load user memberships", err)
	}

	out := []GroupWithMembers{}
	if len(own) == 0 {
		return out, nil
	}

	groupIDs := make([]string, 0, len(own))
	for _, m := range own {
		groupIDs = append(groupIDs, m.GroupID)
	}

	groupIDs = distinct(groupIDs, "")

	var (
		groups  []models.Group
		members []models.GroupMember
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.gw.Select(egCtx, models.TableGroups, &groups, gateway.Where(gateway.In("id", groupIDs)))
	})
	eg.Go(func() error {
		return s.gw.Select(egCtx, models.TableGroupMembers, &members,
			gateway.Where(gateway.In("group_id", groupIDs)).Order("joined_at", false))
	})

	if err := eg.Wait(); err != nil {
		return nil, persistence("load groups", err)
	}

	profiles := s.profiles(ctx, members)

	byID := make(map[string]models.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	byGroup := make(map[string][]Member, len(groupIDs))
	for _, m := range members {
		member := Member{GroupMember: m}
		if u, ok := profiles[m.UserID]; ok {
			member.User = &u
		}

		byGroup[m.GroupID] = append(byGroup[m.GroupID], member)
	}

	for _, id := range groupIDs {
		g, ok := byID[id]
		if !ok {
			log.Debug().Str("group", id).Str("user", userID).Msg("membership points to a missing group")
			continue
		}

		list := byGroup[id]
		if list == nil {
			list = []Member{}
		}

		out = append(out, GroupWithMembers{Group: g, Members: list})
	}

	return out, nil
}

// profiles loads the users behind members. Failures only cost the profiles.
func (s *Service) profiles(ctx context.Context, members []models.GroupMember) map[string]models.User {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}

	ids = distinct(ids, "")
	out := make(map[string]models.User, len(ids))

	if len(ids) == 0 {
		return out
	}

	var users []models.User
	if err := s.gw.Select(ctx, models.TableUsers, &users, gateway.Where(gateway.In("id", ids))); err != nil {
		log.Warn().Err(err).Int("users", len(ids)).Msg("member profiles unavailable")
		return out
	}

	for _, u := range users {
		out[u.ID] = u
	}

	return out
}

// SearchUsers finds users whose username or email contains query, ignoring
// case. Queries shorter than the configured minimum return nothing without
// touching the gateway.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < s.searchMinLength {
		return []models.User{}, nil
	}

	users := []models.User{}
	q := gateway.Where(gateway.Or(
		gateway.ContainsFold("username", query),
		gateway.ContainsFold("email", query),
	)).Order("username", false).Take(s.searchLimit)

	if err := s.gw.Select(ctx, models.TableUsers, &users, q); err != nil {
		return nil, persistence("search users", err)
	}

	return users, nil
}

func memberFilters(userID, groupID string) []gateway.Filter {
	return []gateway.Filter{gateway.Eq("user_id", userID), gateway.Eq("group_id", groupID)}
}

func requireIDs(userID, groupID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(groupID) == "" {
		return errors.Wrap(ErrInvalidArgument, "user id and group id are required")
	}

	return nil
}

// distinct drops blanks, duplicates and skip while keeping the first occurrence order.
func distinct(ids []string, skip string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == skip {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
