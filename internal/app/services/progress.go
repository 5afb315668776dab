package services

import (
	"fmt"
	"math"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
)

// CompletionThreshold is the progress percentage at which a course counts as completed.
const CompletionThreshold = 92.0

const lastUpdatedLayout = "2006-01-02 15:04:05"

// courseProgress aggregates a student's watch records for one course.
type courseProgress struct {
	watchedHours      float64
	completedLectures int
}

// courseLessonIDs returns every lesson id across the sections of course.
func courseLessonIDs(course *models.Course) []int64 {
	if course == nil {
		return nil
	}
	var ids []int64
	for _, section := range course.Sections {
		for _, lesson := range section.Lessons {
			ids = append(ids, lesson.ID)
		}
	}
	return ids
}

// aggregateProgress folds progress rows into per-course totals.
// A row with any watched time counts as a completed lecture.
func aggregateProgress(lessonCourse map[int64]int64, rows []models.LessonProgress) map[int64]*courseProgress {
	out := make(map[int64]*courseProgress)
	for _, row := range rows {
		courseID, ok := lessonCourse[row.LessonID]
		if !ok {
			continue
		}
		p := out[courseID]
		if p == nil {
			p = &courseProgress{}
			out[courseID] = p
		}
		p.watchedHours += float64(row.WatchedSeconds) / 3600
		if row.WatchedSeconds > 0 {
			p.completedLectures++
		}
	}
	return out
}

// progressPercentage is watched over declared hours as a percentage rounded
// half to even to one decimal. It is 0 when the course declares no hours.
func progressPercentage(watchedHours, totalHours float64) float64 {
	if totalHours <= 0 {
		return 0
	}
	return roundHalfEven(watchedHours/totalHours*100, 1)
}

func statusLabel(percentage float64) string {
	if percentage >= CompletionThreshold {
		return dto.CourseStatusCompleted
	}
	return dto.CourseStatusOngoing
}

func lecturesProgress(completed, total int) string {
	return fmt.Sprintf("%d / %d Lectures", completed, total)
}

func roundHalfEven(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.RoundToEven(v*scale) / scale
}
