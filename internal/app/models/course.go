package models

import (
	"time"

	"github.com/yigit/coursehub/internal/pkg/repository"
)

// DefaultCourseImage is stored when a course is created without an image.
const DefaultCourseImage = "default-image-url.jpg"

// Course is a purchasable course owned by an instructor.
type Course struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Description   string    `json:"description"`
	Category      string    `json:"category" gorm:"size:100"`
	StudentCount  int       `json:"studentCount" gorm:"not null;default:0"`
	InstructorID  int64     `json:"instructorId" gorm:"not null;index"`
	Instructor    *User     `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	TotalHours    float64   `json:"totalHours"`
	ImageURL      string    `json:"imageUrl" gorm:"default:default-image-url.jpg"`
	Level         string    `json:"level" gorm:"size:50"`
	Price         float64   `json:"price" gorm:"not null;default:0"`
	Discount      float64   `json:"discount" gorm:"not null;default:0"`
	CourseURL     *string   `json:"courseUrl,omitempty"`
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
	Sections      []Section `json:"sections,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// DiscountedPrice is the price after the percentage discount.
func (c *Course) DiscountedPrice() float64 {
	return c.Price - c.Price*c.Discount/100
}

// Course columns and relations
const (
	CourseID           repository.Field = "id"
	CourseName         repository.Field = "name"
	CourseInstructorID repository.Field = "instructor_id"
	CourseStudentCount repository.Field = "student_count"

	CourseIncludeSections repository.Include = "Sections"
	CourseIncludeLessons  repository.Include = "Sections.Lessons"
)
