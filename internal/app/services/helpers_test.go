package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yigit/coursehub/internal/app/migrations"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	factory repositories.UnitOfWorkFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.NewMigrator(db, zerolog.Nop()).Run(context.Background()))
	return &fixture{db: db, factory: repositories.NewUnitOfWorkFactory(db)}
}

func (f *fixture) user(t *testing.T, name string, role models.RoleType) models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", sanitize(name)),
		PasswordHash: "x",
		RoleType:     role,
	}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) course(t *testing.T, name string, instructorID int64, hours float64, lessonSeconds ...int) models.Course {
	t.Helper()
	c := models.Course{
		Name:         name,
		InstructorID: instructorID,
		TotalHours:   hours,
		ImageURL:     sanitize(name) + ".jpg",
		Price:        100,
		Discount:     10,
	}
	require.NoError(t, f.db.Omit("Sections").Create(&c).Error)

	if len(lessonSeconds) > 0 {
		section := models.Section{CourseID: c.ID, Title: "Section 1", Position: 1}
		require.NoError(t, f.db.Omit("Lessons").Create(&section).Error)
		for i, secs := range lessonSeconds {
			lesson := models.Lesson{SectionID: section.ID, Title: fmt.Sprintf("Lesson %d", i+1), DurationSeconds: secs, Position: i + 1}
			require.NoError(t, f.db.Create(&lesson).Error)
			section.Lessons = append(section.Lessons, lesson)
		}
		c.Sections = []models.Section{section}
	}
	return c
}

func (f *fixture) subscribe(t *testing.T, studentID, courseID int64, at time.Time, active bool) models.Subscription {
	t.Helper()
	s := models.Subscription{
		StudentID:        studentID,
		CourseID:         courseID,
		SubscriptionDate: at,
		IsActive:         active,
		MoneyPaid:        90,
	}
	require.NoError(t, f.db.Create(&s).Error)
	return s
}

func (f *fixture) watch(t *testing.T, userID, lessonID int64, seconds int) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.LessonProgress{UserID: userID, LessonID: lessonID, WatchedSeconds: seconds}).Error)
}

func (f *fixture) reloadCourse(t *testing.T, id int64) models.Course {
	t.Helper()
	var c models.Course
	require.NoError(t, f.db.First(&c, id).Error)
	return c
}

func (f *fixture) setStudentCount(t *testing.T, courseID int64, n int) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Course{}).Where("id = ?", courseID).Update("student_count", n).Error)
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, '.')
		}
	}
	return string(out)
}
