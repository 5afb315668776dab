package dto

import "time"

// Course progress labels
const (
	CourseStatusCompleted = "Completed"
	CourseStatusOngoing   = "On Going"
)

// EnrollmentResponse is one subscription as seen by instructors and admins.
type EnrollmentResponse struct {
	StudentID        int64     `json:"studentId" example:"12"`
	CourseID         int64     `json:"courseId" example:"3"`
	StudentName      string    `json:"studentName" example:"Jane Doe"`
	CourseTitle      string    `json:"courseTitle" example:"Intro to Go"`
	StudentEmail     string    `json:"studentEmail" example:"jane@example.com"`
	EnrolmentStatus  bool      `json:"enrolmentStatus" example:"true"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
	MoneyPaid        float64   `json:"moneyPaid" example:"49.99"`
}

// StudentCourseResponse is one course in a student's "my courses" view.
type StudentCourseResponse struct {
	CourseID           int64   `json:"courseId" example:"3"`
	CourseTitle        string  `json:"courseTitle" example:"Intro to Go"`
	CourseImage        string  `json:"courseImage" example:"default-image-url.jpg"`
	TotalHours         float64 `json:"totalHours" example:"10.5"`
	LecturesProgress   string  `json:"lecturesProgress" example:"3 / 12 Lectures"`
	ProgressPercentage float64 `json:"progressPercentage" example:"25"`
	Status             string  `json:"status" example:"On Going" enums:"Completed,On Going"`
	LastUpdated        string  `json:"lastUpdated" example:"2025-04-23 12:01:05"`
}

// StudentSubscriptionResponse is a raw subscription row for its owner.
type StudentSubscriptionResponse struct {
	CourseID         int64     `json:"courseId" example:"3"`
	CourseName       string    `json:"courseName" example:"Intro to Go"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
	IsActive         bool      `json:"isActive" example:"true"`
}

// EnrollmentFilter is the admin enrollment list query.
type EnrollmentFilter struct {
	SearchQuery string `form:"searchQuery" validate:"max=200"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
	Latest      int    `form:"latest" validate:"gte=0"`
}

// EnrollmentPage is one page of the admin enrollment list.
type EnrollmentPage struct {
	Items      []EnrollmentResponse `json:"items"`
	Pagination PaginationInfo       `json:"pagination"`
}

// SubscriptionCountResponse carries the total number of subscriptions.
type SubscriptionCountResponse struct {
	Count int64 `json:"count" example:"42"`
}

// SubscribeResponse is returned after a student enrolls in a course.
type SubscribeResponse struct {
	SubscriptionID   int64     `json:"subscriptionId" example:"7"`
	CourseID         int64     `json:"courseId" example:"3"`
	MoneyPaid        float64   `json:"moneyPaid" example:"44.99"`
	SubscriptionDate time.Time `json:"subscriptionDate"`
}
