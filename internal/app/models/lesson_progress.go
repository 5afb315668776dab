package models

import (
	"time"

	"github.com/yigit/coursehub/internal/pkg/repository"
)

// LessonProgress is how long a user has watched one lesson.
type LessonProgress struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	UserID         int64     `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	LessonID       int64     `json:"lessonId" gorm:"not null;uniqueIndex:idx_progress_user_lesson"`
	Lesson         *Lesson   `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
	WatchedSeconds int       `json:"watchedSeconds" gorm:"not null;default:0"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName keeps the singular table name.
func (LessonProgress) TableName() string {
	return TableLessonProgress
}

// LessonProgress columns
const (
	ProgressUserID         repository.Field = "user_id"
	ProgressLessonID       repository.Field = "lesson_id"
	ProgressWatchedSeconds repository.Field = "watched_seconds"
)
