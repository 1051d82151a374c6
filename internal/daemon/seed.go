package daemon

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/colearnhub/colearnhub/internal/db/models"
)

// demoUsers are created in dev mode so groups can be tried out right away.
var demoUsers = []models.User{
	{Username: "ada", Email: "ada@colearnhub.local", FullName: "Ada Lovelace"},
	{Username: "alan", Email: "alan@colearnhub.local", FullName: "Alan Turing"},
	{Username: "grace", Email: "grace@colearnhub.local", FullName: "Grace Hopper"},
}

func seed(db *gorm.DB) error {
	// Seed initial data if user table is empty
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count users")
	}

	if count > 0 {
		return nil
	}

	users := make([]models.User, len(demoUsers))
	copy(users, demoUsers)

	now := time.Now().UTC()
	for i := range users {
		users[i].CreatedAt = now
	}

	if err := db.Create(&users).Error; err != nil {
		return errors.Wrap(err, "seed users")
	}

	log.Info().Int("users", len(users)).Msg("seeded demo users")

	return nil
}
