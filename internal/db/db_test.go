package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consult-booking-backend/config"
	"consult-booking-backend/internal/logger"
	"consult-booking-backend/internal/model"
)

func TestInit_SQLiteMigrates(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:dbinit?mode=memory&cache=shared",
		LogLevel: "silent",
	}

	gormDB, err := Init(cfg, logger.Discard())
	require.NoError(t, err)
	defer Close(gormDB)

	m := gormDB.Migrator()
	assert.True(t, m.HasTable(&model.Slot{}))
	assert.True(t, m.HasTable(&model.Lead{}))
	assert.True(t, m.HasTable(&model.Contact{}))
	assert.True(t, m.HasTable(&model.PushSubscription{}))
	assert.True(t, m.HasTable(&model.AnalyticsEvent{}))
	assert.True(t, m.HasIndex(&model.Slot{}, "idx_slot_date_time"))
}

func TestInit_UnknownDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "mysql"}, logger.Discard())
	assert.Error(t, err)
}
