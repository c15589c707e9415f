package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/model"
)

func TestDialectorUnknownDriver(t *testing.T) {
	_, err := Dialector("oracle", "x")
	assert.Error(t, err)
}

func TestInitDBSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, AutoMigrate: true}}

	db, err := InitDB(cfg)
	require.NoError(t, err)

	for _, m := range []interface{}{&model.User{}, &model.UserFollows{}, &model.Ticket{}, &model.Review{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
