package dto

// EnrollmentsQuery is the instructor enrollment list query.
type EnrollmentsQuery struct {
	Latest int `form:"latest" validate:"gte=0"`
}

// RecordWatchTimeRequest reports seconds watched on a lesson.
type RecordWatchTimeRequest struct {
	Seconds int `json:"seconds" validate:"required,gt=0,lte=86400"`
}

// LessonProgressResponse is the progress row after recording watch time.
type LessonProgressResponse struct {
	LessonID       int64 `json:"lessonId" example:"5"`
	WatchedSeconds int   `json:"watchedSeconds" example:"600"`
}
