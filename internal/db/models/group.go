package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a study group. OwnerID is fixed at creation.
type Group struct {
	// ID is assigned by the store; empty before insert.
	ID           string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description,omitempty"`
	OwnerID      string    `gorm:"size:36;not null;index" json:"owner_id"`
	GroupPicture string    `gorm:"size:500" json:"group_picture,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return TableGroups
}

// BeforeCreate assigns a uuid when the caller left the id empty.
func (g *Group) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	return nil
}
