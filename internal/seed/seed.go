package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/repository"
)

// Options controls the demo data.
type Options struct {
	Password string
	HashCost int
}

type demoSection struct {
	title   string
	lessons []int // lesson durations in seconds
}

type demoCourse struct {
	name     string
	category string
	level    string
	price    float64
	discount float64
	sections []demoSection
}

var demoUsers = []models.User{
	{Name: "Ada Admin", Email: "admin@coursehub.dev", RoleType: models.RoleAdmin},
	{Name: "Ian Instructor", Email: "instructor@coursehub.dev", RoleType: models.RoleInstructor},
	{Name: "Sam Student", Email: "student@coursehub.dev", RoleType: models.RoleStudent},
}

var demoCourses = []demoCourse{
	{
		name: "Go Fundamentals", category: "Programming", level: "Beginner", price: 49.99, discount: 10,
		sections: []demoSection{
			{"Getting started", []int{600, 900, 1200}},
			{"Concurrency", []int{1500, 1800, 2100}},
		},
	},
	{
		name: "Distributed Systems with Go", category: "Programming", level: "Advanced", price: 89.99, discount: 20,
		sections: []demoSection{
			{"Foundations", []int{2400, 2700}},
			{"Consensus", []int{3000, 3600}},
		},
	},
}

// CreateDefaultData creates demo users, courses and one subscription if they
// don't exist yet. It returns the demo users so callers can mint tokens for them.
// Failures on one item are collected and do not stop the rest.
func CreateDefaultData(ctx context.Context, db *gorm.DB, opts Options, lgr zerolog.Logger) ([]models.User, error) {
	factory := repositories.NewUnitOfWorkFactory(db)
	lgr.Info().Msg("Checking/Creating default data (users/courses)...")

	var finalErr error
	users := make([]models.User, 0, len(demoUsers))
	for _, demo := range demoUsers {
		u, err := ensureUser(ctx, factory, demo, opts)
		if err != nil {
			lgr.Error().Err(err).Str("email", demo.Email).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		users = append(users, *u)
	}

	instructor := findRole(users, models.RoleInstructor)
	student := findRole(users, models.RoleStudent)
	if instructor == nil {
		return users, errors.Join(finalErr, errors.New("demo instructor missing"))
	}

	var firstCourseID int64
	for _, demo := range demoCourses {
		id, err := ensureCourse(ctx, db, factory, demo, instructor.ID)
		if err != nil {
			lgr.Error().Err(err).Str("course", demo.name).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if firstCourseID == 0 {
			firstCourseID = id
		}
	}

	if student != nil && firstCourseID > 0 {
		enrollments := services.NewEnrollmentService(factory, lgr)
		if _, err := enrollments.Subscribe(ctx, student.ID, firstCourseID); err != nil &&
			!errors.Is(err, apperrors.ErrAlreadySubscribed) {
			lgr.Error().Err(err).Msg("Error creating demo subscription")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("users", len(users)).Msg("Default data check complete")
	return users, finalErr
}

func ensureUser(ctx context.Context, factory repositories.UnitOfWorkFactory, demo models.User, opts Options) (*models.User, error) {
	uow := factory()
	existing, err := uow.Users().FindOne(ctx, repository.Eq(models.UserEmail, demo.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := auth.HashPassword(opts.Password, opts.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u := demo
	u.PasswordHash = hash
	if _, err := uow.Users().Add(ctx, &u); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		if dberrors.IsUniqueViolation(err) {
			// Created by a concurrent start; read it back.
			return factory().Users().FindOne(ctx, repository.Eq(models.UserEmail, demo.Email))
		}
		return nil, err
	}
	return &u, nil
}

func ensureCourse(ctx context.Context, db *gorm.DB, factory repositories.UnitOfWorkFactory, demo demoCourse, instructorID int64) (int64, error) {
	uow := factory()
	existing, err := uow.Courses().FindOne(ctx, repository.And(
		repository.Eq(models.CourseName, demo.name),
		repository.Eq(models.CourseInstructorID, instructorID),
	))
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	var totalSeconds int
	sections := make([]models.Section, 0, len(demo.sections))
	for i, ds := range demo.sections {
		section := models.Section{Title: ds.title, Position: i + 1}
		for j, secs := range ds.lessons {
			totalSeconds += secs
			section.Lessons = append(section.Lessons, models.Lesson{
				Title:           fmt.Sprintf("%s %d", ds.title, j+1),
				DurationSeconds: secs,
				Position:        j + 1,
			})
		}
		sections = append(sections, section)
	}

	course := &models.Course{
		Name:         demo.name,
		Category:     demo.category,
		Level:        demo.level,
		Price:        demo.price,
		Discount:     demo.discount,
		InstructorID: instructorID,
		TotalHours:   float64(totalSeconds) / 3600,
		ImageURL:     models.DefaultCourseImage,
	}
	if _, err := uow.Courses().Add(ctx, course); err != nil {
		return 0, err
	}
	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	// Sections and lessons are outside the unit of work's entity set.
	for i := range sections {
		sections[i].CourseID = course.ID
	}
	if err := db.WithContext(ctx).Create(&sections).Error; err != nil {
		return 0, fmt.Errorf("failed to create sections: %w", err)
	}
	return course.ID, nil
}

func findRole(users []models.User, role models.RoleType) *models.User {
	for i := range users {
		if users[i].RoleType == role {
			return &users[i]
		}
	}
	return nil
}
