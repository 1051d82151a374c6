package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a profile row of the Users table. The service only reads users;
// they are owned by the account system of the app and written here by the seed.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	FullName  string    `gorm:"size:200" json:"full_name,omitempty"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return TableUsers
}

// BeforeCreate assigns a uuid when the caller left the id empty.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}
