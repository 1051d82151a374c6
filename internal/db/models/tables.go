package models

// Table names as used by the remote store.
const (
	TableGroups        = "Groups"
	TableGroupMembers  = "Group_Members"
	TableUsers         = "Users"
	TableStudySessions = "Study_Sessions"
	TableRatings       = "Ratings"
)

// All returns one value of every model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Group{},
		&GroupMember{},
		&StudySession{},
		&Rating{},
	}
}
