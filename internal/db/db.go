package db

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"github.com/yigit/coursehub/internal/config"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// Database is an open gorm handle plus the connection resources under it.
type Database struct {
	Gorm *gorm.DB
	// Pool is set only for the postgres driver.
	Pool  *pgxpool.Pool
	sqlDB *sql.DB
}

// Open connects to the database selected by cfg.Database.Driver.
func Open(cfg *config.Config) (*Database, error) {
	gormConfig := &gorm.Config{
		Logger: logger.NewGormLogger(
			logger.LogLevel(cfg.Logging.Level),
			helpers.ParseDuration(cfg.Database.SlowQueryThreshold, 0),
		),
		TranslateError: true,
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return openPostgres(cfg, gormConfig)
	case config.DriverSQLite:
		return openSQLite(cfg.Database.SQLitePath, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Close releases the connection pool.
func (d *Database) Close() {
	if d.sqlDB != nil {
		if err := d.sqlDB.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database handle")
		}
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}
