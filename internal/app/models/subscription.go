package models

import (
	"time"

	"github.com/yigit/coursehub/internal/pkg/repository"
)

// Subscription links a student to a course they paid for.
type Subscription struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	StudentID        int64     `json:"studentId" gorm:"not null;index"`
	Student          *User     `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	CourseID         int64     `json:"courseId" gorm:"not null;index"`
	Course           *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	SubscriptionDate time.Time `json:"subscriptionDate" gorm:"not null;index"`
	IsActive         bool      `json:"isActive" gorm:"not null"`
	MoneyPaid        float64   `json:"moneyPaid" gorm:"not null;default:0"`
}

// Subscription columns and relations
const (
	SubscriptionID        = repository.Field("id")
	SubscriptionStudentID = repository.Field("student_id")
	SubscriptionCourseID  = repository.Field("course_id")
	SubscriptionDate      = repository.Field("subscription_date")
	SubscriptionIsActive  = repository.Field("is_active")

	SubscriptionIncludeStudent       = repository.Include("Student")
	SubscriptionIncludeCourse        = repository.Include("Course")
	SubscriptionIncludeCourseLessons = repository.Include("Course.Sections.Lessons")
)
