package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's score for a study material.
type Rating struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	MaterialID string    `gorm:"size:36;not null;uniqueIndex:idx_rating_user_material" json:"material_id"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_rating_user_material" json:"user_id"`
	Score      int       `gorm:"not null" json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the database table name for the Rating model.
func (Rating) TableName() string {
	return TableRatings
}

// BeforeCreate assigns a uuid when the caller left the id empty.
func (r *Rating) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}
