package migrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yigit/coursehub/internal/app/models"
)

// SchemaMigration records an applied migration version.
type SchemaMigration struct {
	Version   string    `gorm:"primaryKey;size:255"`
	AppliedAt time.Time `gorm:"not null"`
}

// Migration is one versioned schema change.
type Migration struct {
	Version string
	Up      func(tx *gorm.DB) error
}

// Migrations returns the schema history in version order.
func Migrations() []Migration {
	return []Migration{
		{
			Version: "001_core_schema",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Course{}, &models.Section{}, &models.Lesson{})
			},
		},
		{
			Version: "002_enrollment_schema",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Subscription{}, &models.LessonProgress{})
			},
		},
	}
}

// Migrator manages database migrations
type Migrator struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *gorm.DB, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var applied SchemaMigration
	err := m.db.WithContext(ctx).Where("version = ?", version).First(&applied).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return true, nil
}

// Apply runs a single migration and records it in the same transaction.
func (m *Migrator) Apply(ctx context.Context, migration Migration) error {
	// Check if migration has already been applied
	applied, err := m.isMigrationApplied(ctx, migration.Version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("version", migration.Version).Msg("Migration already applied, skipping")
		return nil
	}

	// Schema change and version record commit together
	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return fmt.Errorf("error occurred during migration %s: %w", migration.Version, err)
		}
		// Record the migration as applied
		record := SchemaMigration{Version: migration.Version, AppliedAt: time.Now()}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("version", migration.Version).Msg("Migration successfully applied")
	return nil
}

// Run applies every pending migration in version order.
func (m *Migrator) Run(ctx context.Context) error {
	// Ensure migration tracking table exists
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	// Versions are zero padded, so lexical order is apply order
	all := Migrations()
	sort.Slice(all, func(i, j int) bool { return all[i].Version < all[j].Version })

	for _, migration := range all {
		if err := m.Apply(ctx, migration); err != nil {
			return err
		}
	}
	return nil
}
