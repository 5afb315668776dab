package logger

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// gormWriter forwards gorm's printf style output into zerolog.
type gormWriter struct {
	level zerolog.Level
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	defaultLogger.WithLevel(w.level).Str("component", "gorm").Msgf(format, args...)
}

// NewGormLogger returns a gorm logger writing through zerolog.
// SQL traces are emitted only when level is DebugLevel.
func NewGormLogger(level LogLevel, slowThreshold time.Duration) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	writerLevel := zerolog.WarnLevel
	switch level {
	case DebugLevel:
		gormLevel = gormlogger.Info
		writerLevel = zerolog.DebugLevel
	case ErrorLevel, FatalLevel:
		gormLevel = gormlogger.Error
		writerLevel = zerolog.ErrorLevel
	}

	return gormlogger.New(gormWriter{level: writerLevel}, gormlogger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
