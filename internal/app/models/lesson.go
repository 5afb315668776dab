package models

import "github.com/yigit/coursehub/internal/pkg/repository"

// Section groups the lessons of a course.
type Section struct {
	ID       int64    `json:"id" gorm:"primaryKey"`
	CourseID int64    `json:"courseId" gorm:"not null;index"`
	Title    string   `json:"title" gorm:"size:255;not null"`
	Position int      `json:"position"`
	Lessons  []Lesson `json:"lessons,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Lesson is a single watchable unit.
type Lesson struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	SectionID       int64  `json:"sectionId" gorm:"not null;index"`
	Title           string `json:"title" gorm:"size:255;not null"`
	DurationSeconds int    `json:"durationSeconds"`
	Position        int    `json:"position"`
}

// Lesson columns
const (
	LessonID        repository.Field = "id"
	LessonSectionID repository.Field = "section_id"
)
