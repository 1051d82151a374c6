package membership

import (
	"github.com/colearnhub/colearnhub/internal/db/models"
)

// CreateGroupInput describes a new group and the users invited into it.
type CreateGroupInput struct {
	Name        string   `validate:"required,max=100"`
	Description string   `validate:"max=500"`
	OwnerID     string   `validate:"required"`
	InviteeIDs  []string
}

// FailedInvite is an invitation that could not be stored.
type FailedInvite struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// CreateGroupResult is the created group plus the outcome of its invitations.
type CreateGroupResult struct {
	Group         models.Group   `json:"group"`
	Invited       []string       `json:"invited"`
	FailedInvites []FailedInvite `json:"failed_invites"`
}

// InviteResult reports what happened to each invited user.
type InviteResult struct {
	Invited    []string       `json:"invited"`
	Duplicates []string       `json:"duplicates"`
	Failed     []FailedInvite `json:"failed"`
}

// Member is a membership row with the user's profile when it could be loaded.
type Member struct {
	models.GroupMember
	User *models.User `json:"user,omitempty"`
}

// GroupWithMembers is a group the user belongs to or is invited into.
type GroupWithMembers struct {
	Group   models.Group `json:"group"`
	Members []Member     `json:"members"`
}
