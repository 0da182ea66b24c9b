package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/despensa/backend/config"
	"github.com/pageza/despensa/backend/internal/database"
	"github.com/pageza/despensa/backend/internal/logger"
	"github.com/pageza/despensa/backend/internal/models"
	"github.com/pageza/despensa/backend/internal/testhelpers"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "despensa.db"),
	}
	log := logger.Discard()

	db, err := database.Open(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, database.RunMigrations(db, "", log))
	require.NoError(t, database.HealthCheck(context.Background(), db))

	user := testhelpers.CreateUser(t, db, "Ana")
	var found models.User
	require.NoError(t, db.First(&found, "id = ?", user.ID).Error)
	assert.Equal(t, "Ana", found.Name)
}

func TestConnectionStrings(t *testing.T) {
	cfg := &config.Config{
		DBHost:     "db",
		DBPort:     "5433",
		DBUser:     "despensa",
		DBPassword: "secreto",
		DBName:     "despensa",
		DBSSLMode:  "require",
	}

	assert.Equal(t, "postgres://despensa:secreto@db:5433/despensa?sslmode=require", database.URL(cfg))
	assert.Contains(t, database.DSN(cfg), "host=db")
	assert.Contains(t, database.DSN(cfg), "sslmode=require")
}

func TestMigrateDownRejectsNonPositiveSteps(t *testing.T) {
	err := database.MigrateDown(nil, testhelpers.MigrationsDir(), 0, logger.Discard())
	assert.Error(t, err)
}

func TestPostgresMigrationsRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	log := logger.Discard()

	sqlDB, err := db.DB()
	require.NoError(t, err)

	require.NoError(t, database.MigrateDown(sqlDB, testhelpers.MigrationsDir(), 4, log))
	assert.False(t, db.Migrator().HasTable("users"))

	require.NoError(t, database.MigrateUp(sqlDB, testhelpers.MigrationsDir(), log))
	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("follows"))
}
