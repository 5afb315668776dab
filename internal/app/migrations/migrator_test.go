package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yigit/coursehub/internal/app/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestMigrator_RunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	m := NewMigrator(db, zerolog.Nop())

	require.NoError(t, m.Run(context.Background()))
	require.NoError(t, m.Run(context.Background()))

	for _, model := range []interface{}{
		&models.User{}, &models.Course{}, &models.Section{}, &models.Lesson{},
		&models.Subscription{}, &models.LessonProgress{},
	} {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.LessonProgress{}, "idx_progress_user_lesson"))

	var applied []SchemaMigration
	require.NoError(t, db.Order("version").Find(&applied).Error)
	require.Len(t, applied, 2)
	assert.Equal(t, "001_core_schema", applied[0].Version)
	assert.Equal(t, "002_enrollment_schema", applied[1].Version)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := newTestDB(t)
	m := NewMigrator(db, zerolog.Nop())
	require.NoError(t, m.ensureMigrationTableExists(context.Background()))

	boom := errors.New("boom")
	err := m.Apply(context.Background(), Migration{
		Version: "999_broken",
		Up:      func(*gorm.DB) error { return boom },
	})
	assert.ErrorIs(t, err, boom)

	applied, err := m.isMigrationApplied(context.Background(), "999_broken")
	require.NoError(t, err)
	assert.False(t, applied)
}
