package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is a scheduled study meeting, optionally bound to a group.
type StudySession struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty"`
	GroupID   *string   `gorm:"size:36;index" json:"group_id"`
	CreatorID string    `gorm:"size:36;not null;index" json:"creator_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
}

// TableName specifies the database table name for the StudySession model.
func (StudySession) TableName() string {
	return TableStudySessions
}

// BeforeCreate assigns a uuid when the caller left the id empty.
func (s *StudySession) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	return nil
}
