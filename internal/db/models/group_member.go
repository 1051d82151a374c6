package models

import "time"

// GroupMember links a user to a group.
//
// Accept is tri-state: nil is a pending invitation, true an active member.
// false is reserved and never written.
type GroupMember struct {
	UserID   string    `gorm:"primaryKey;size:36;column:user_id" json:"user_id"`
	GroupID  string    `gorm:"primaryKey;size:36;column:group_id;index" json:"group_id"`
	Accept   *bool     `gorm:"column:accept" json:"accept"`
	JoinedAt time.Time `gorm:"column:joined_at" json:"joined_at"`
}

// TableName specifies the database table name for the GroupMember model.
func (GroupMember) TableName() string {
	return TableGroupMembers
}

// Pending reports whether the row is an unanswered invitation.
func (m GroupMember) Pending() bool {
	return m.Accept == nil
}

// Accepted reports whether the user is an active member.
func (m GroupMember) Accepted() bool {
	return m.Accept != nil && *m.Accept
}

// Bool returns a pointer to b, handy for the tri-state accept column.
func Bool(b bool) *bool {
	return &b
}
