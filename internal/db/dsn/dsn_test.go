package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colearnhub/colearnhub/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name     string
		db       config.DB
		expected string
	}{
		{
			name: "mysql",
			db: config.DB{
				GormEngine: config.EngineMySQL,
				Host:       "db",
				Port:       3306,
				User:       "u",
				Password:   "p",
				Name:       "colearn",
				Extras:     "parseTime=true",
			},
			expected: "u:p@tcp(db:3306)/colearn?parseTime=true",
		},
		{
			name: "postgres",
			db: config.DB{
				GormEngine: config.EnginePostgres,
				Host:       "db",
				Port:       5432,
				User:       "u",
				Password:   "p",
				Name:       "colearn",
				Extras:     "sslmode=disable",
			},
			expected: "host=db port=5432 user=u password=p dbname=colearn sslmode=disable",
		},
		{
			name:     "sqlite file",
			db:       config.DB{GormEngine: config.EngineSQLite, Name: "colearn.db"},
			expected: "colearn.db",
		},
		{
			name:     "sqlite with pragmas",
			db:       config.DB{GormEngine: config.EngineSQLite, Name: "colearn.db", Extras: "_pragma=foreign_keys(1)"},
			expected: "colearn.db?_pragma=foreign_keys(1)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Create(&config.Config{DB: tc.db}))
		})
	}
}
