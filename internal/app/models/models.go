package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleAdmin      RoleType = "ADMIN"
)

// IsValid reports whether r is one of the known roles.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// Table names, used where a filter reaches into a related table.
const (
	TableUsers          = "users"
	TableCourses        = "courses"
	TableSections       = "sections"
	TableLessons        = "lessons"
	TableSubscriptions  = "subscriptions"
	TableLessonProgress = "lesson_progress"
)
