package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/repository"
)

// EnrollmentService answers role scoped questions about subscriptions and
// learning progress, and owns the subscription lifecycle.
type EnrollmentService struct {
	newUnitOfWork repositories.UnitOfWorkFactory
	logger        zerolog.Logger
	now           func() time.Time
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(newUnitOfWork repositories.UnitOfWorkFactory, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		newUnitOfWork: newUnitOfWork,
		logger:        logger,
		now:           time.Now,
	}
}

// GetStudentCourses returns the student's active courses with their watch progress.
func (s *EnrollmentService) GetStudentCourses(ctx context.Context, studentID int64) ([]dto.StudentCourseResponse, error) {
	uow := s.newUnitOfWork()

	subs, err := uow.Subscriptions().FindAll(ctx, repository.NewSpec().
		Where(repository.Eq(models.SubscriptionStudentID, studentID)).
		Where(repository.Eq(models.SubscriptionIsActive, true)).
		Include(models.SubscriptionIncludeCourseLessons).
		OrderBy(models.SubscriptionID, repository.Ascending))
	if err != nil {
		return nil, fmt.Errorf("error retrieving subscriptions for student %d: %w", studentID, err)
	}

	lessonCourse := make(map[int64]int64)
	var lessonIDs []int64
	for _, sub := range subs {
		for _, id := range courseLessonIDs(sub.Course) {
			lessonCourse[id] = sub.CourseID
			lessonIDs = append(lessonIDs, id)
		}
	}

	var rows []models.LessonProgress
	if len(lessonIDs) > 0 {
		rows, err = uow.LessonProgress().Find(ctx, repository.And(
			repository.Eq(models.ProgressUserID, studentID),
			repository.In(models.ProgressLessonID, lessonIDs),
		))
		if err != nil {
			return nil, fmt.Errorf("error retrieving lesson progress for student %d: %w", studentID, err)
		}
	}
	progress := aggregateProgress(lessonCourse, rows)

	lastUpdated := s.now().UTC().Format(lastUpdatedLayout)
	result := make([]dto.StudentCourseResponse, 0, len(subs))
	for _, sub := range subs {
		if sub.Course == nil {
			continue
		}
		course := sub.Course
		p := progress[sub.CourseID]
		if p == nil {
			p = &courseProgress{}
		}
		pct := progressPercentage(p.watchedHours, course.TotalHours)
		result = append(result, dto.StudentCourseResponse{
			CourseID:           course.ID,
			CourseTitle:        course.Name,
			CourseImage:        course.ImageURL,
			TotalHours:         roundHalfEven(course.TotalHours, 2),
			LecturesProgress:   lecturesProgress(p.completedLectures, len(courseLessonIDs(course))),
			ProgressPercentage: pct,
			Status:             statusLabel(pct),
			LastUpdated:        lastUpdated,
		})
	}
	return result, nil
}

// GetStudentSubscriptions returns every subscription the student holds, active or not.
func (s *EnrollmentService) GetStudentSubscriptions(ctx context.Context, studentID int64) ([]dto.StudentSubscriptionResponse, error) {
	uow := s.newUnitOfWork()

	subs, err := uow.Subscriptions().FindAll(ctx, repository.NewSpec().
		Where(repository.Eq(models.SubscriptionStudentID, studentID)).
		Include(models.SubscriptionIncludeCourse).
		OrderBy(models.SubscriptionDate, repository.Descending))
	if err != nil {
		return nil, fmt.Errorf("error retrieving subscriptions for student %d: %w", studentID, err)
	}

	result := make([]dto.StudentSubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		item := dto.StudentSubscriptionResponse{
			CourseID:         sub.CourseID,
			SubscriptionDate: sub.SubscriptionDate,
			IsActive:         sub.IsActive,
		}
		if sub.Course != nil {
			item.CourseName = sub.Course.Name
		}
		result = append(result, item)
	}
	return result, nil
}

// GetInstructorEnrollments lists subscriptions on the instructor's courses,
// newest first. A positive latest keeps only that many records.
func (s *EnrollmentService) GetInstructorEnrollments(ctx context.Context, instructorID int64, latest int) ([]dto.EnrollmentResponse, error) {
	uow := s.newUnitOfWork()

	spec := repository.NewSpec().
		Where(repository.Related(models.SubscriptionCourseID, models.TableCourses,
			repository.Eq(models.CourseInstructorID, instructorID))).
		Include(models.SubscriptionIncludeStudent, models.SubscriptionIncludeCourse).
		OrderBy(models.SubscriptionDate, repository.Descending).
		OrderBy(models.SubscriptionID, repository.Descending)
	if latest > 0 {
		spec.Take(latest)
	}

	subs, err := uow.Subscriptions().FindAll(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments for instructor %d: %w", instructorID, err)
	}
	return toEnrollmentResponses(subs), nil
}

// GetAllEnrollments is the searchable, paginated list of every subscription.
func (s *EnrollmentService) GetAllEnrollments(ctx context.Context, filter dto.EnrollmentFilter) (*dto.EnrollmentPage, error) {
	uow := s.newUnitOfWork()

	page, pageSize := helpers.NormalizePage(filter.Page, filter.PageSize)
	skip, take := helpers.CalculateOffsetLimit(page, pageSize)
	if filter.Latest > 0 {
		skip, take = 0, filter.Latest
	}

	var criteria repository.Filter
	if filter.SearchQuery != "" {
		criteria = repository.Or(
			repository.Related(models.SubscriptionStudentID, models.TableUsers,
				repository.Contains(models.UserName, filter.SearchQuery)),
			repository.Related(models.SubscriptionCourseID, models.TableCourses,
				repository.Contains(models.CourseName, filter.SearchQuery)),
		)
	}

	subs, err := uow.Subscriptions().FindAll(ctx, repository.NewSpec().
		Where(criteria).
		Include(models.SubscriptionIncludeStudent, models.SubscriptionIncludeCourse).
		OrderBy(models.SubscriptionDate, repository.Descending).
		OrderBy(models.SubscriptionID, repository.Descending).
		Skip(skip).
		Take(take))
	if err != nil {
		return nil, fmt.Errorf("error retrieving enrollments: %w", err)
	}

	total, err := uow.Subscriptions().Count(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("error counting enrollments: %w", err)
	}

	return &dto.EnrollmentPage{
		Items:      toEnrollmentResponses(subs),
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// RemoveSubscription deletes a student's subscription and decrements the
// course's student counter, committing both together.
func (s *EnrollmentService) RemoveSubscription(ctx context.Context, studentID, courseID int64) error {
	uow := s.newUnitOfWork()

	sub, err := uow.Subscriptions().FindOne(ctx, subscriptionOf(studentID, courseID))
	if err != nil {
		return fmt.Errorf("error finding subscription: %w", err)
	}
	if sub == nil {
		return apperrors.NewCustomError(apperrors.ErrSubscriptionNotFound, "Subscription not found")
	}

	if err := uow.Subscriptions().Delete(ctx, sub); err != nil {
		return err
	}
	if err := s.adjustStudentCount(ctx, uow, courseID, -1); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("error removing subscription: %w", err)
	}

	s.logger.Info().Int64("studentId", studentID).Int64("courseId", courseID).Msg("Subscription removed")
	return nil
}

// Subscribe enrolls a student in a course at the course's discounted price.
// An inactive subscription is reactivated instead of duplicated.
func (s *EnrollmentService) Subscribe(ctx context.Context, studentID, courseID int64) (*dto.SubscribeResponse, error) {
	uow := s.newUnitOfWork()

	course, err := uow.Courses().GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	if course == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrCourseNotFound, "Course not found")
	}

	existing, err := uow.Subscriptions().FindOne(ctx, subscriptionOf(studentID, courseID))
	if err != nil {
		return nil, fmt.Errorf("error finding subscription: %w", err)
	}
	if existing != nil && existing.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAlreadySubscribed, "Student is already subscribed to this course")
	}

	sub := &models.Subscription{
		StudentID:        studentID,
		CourseID:         courseID,
		SubscriptionDate: s.now().UTC(),
		IsActive:         true,
		MoneyPaid:        course.DiscountedPrice(),
	}
	if existing != nil {
		sub, err = uow.Subscriptions().Update(ctx, existing.ID, sub)
	} else {
		sub, err = uow.Subscriptions().Add(ctx, sub)
	}
	if err != nil {
		uow.Rollback()
		return nil, err
	}

	course.StudentCount++
	if _, err := uow.Courses().Update(ctx, course.ID, course); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error subscribing student: %w", err)
	}

	s.logger.Info().Int64("studentId", studentID).Int64("courseId", courseID).
		Float64("moneyPaid", sub.MoneyPaid).Msg("Student subscribed")

	return &dto.SubscribeResponse{
		SubscriptionID:   sub.ID,
		CourseID:         sub.CourseID,
		MoneyPaid:        sub.MoneyPaid,
		SubscriptionDate: sub.SubscriptionDate,
	}, nil
}

// Unsubscribe marks the student's active subscription inactive and
// decrements the course's student counter.
func (s *EnrollmentService) Unsubscribe(ctx context.Context, studentID, courseID int64) error {
	uow := s.newUnitOfWork()

	sub, err := uow.Subscriptions().FindOne(ctx, repository.And(
		subscriptionOf(studentID, courseID),
		repository.Eq(models.SubscriptionIsActive, true),
	))
	if err != nil {
		return fmt.Errorf("error finding subscription: %w", err)
	}
	if sub == nil {
		return apperrors.NewCustomError(apperrors.ErrSubscriptionNotFound, "Subscription not found")
	}

	sub.IsActive = false
	if _, err := uow.Subscriptions().Update(ctx, sub.ID, sub); err != nil {
		return err
	}
	if err := s.adjustStudentCount(ctx, uow, courseID, -1); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("error unsubscribing student: %w", err)
	}

	s.logger.Info().Int64("studentId", studentID).Int64("courseId", courseID).Msg("Student unsubscribed")
	return nil
}

// CountSubscriptions returns the total number of subscriptions.
func (s *EnrollmentService) CountSubscriptions(ctx context.Context) (int64, error) {
	return s.newUnitOfWork().Subscriptions().Count(ctx, nil)
}

// GetAllPayments returns every subscription record, newest first.
func (s *EnrollmentService) GetAllPayments(ctx context.Context) ([]models.Subscription, error) {
	return s.newUnitOfWork().Subscriptions().GetAllOrdered(ctx,
		repository.Desc(models.SubscriptionDate), nil, 0, 0)
}

// adjustStudentCount stages a change to the course's student counter.
// The counter never drops below zero and a missing course is ignored.
func (s *EnrollmentService) adjustStudentCount(ctx context.Context, uow repositories.UnitOfWork, courseID int64, delta int) error {
	course, err := uow.Courses().GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("error retrieving course: %w", err)
	}
	if course == nil {
		return nil
	}
	next := course.StudentCount + delta
	if next < 0 {
		next = 0
	}
	if next == course.StudentCount {
		return nil
	}
	course.StudentCount = next
	_, err = uow.Courses().Update(ctx, course.ID, course)
	return err
}

func subscriptionOf(studentID, courseID int64) repository.Filter {
	return repository.And(
		repository.Eq(models.SubscriptionStudentID, studentID),
		repository.Eq(models.SubscriptionCourseID, courseID),
	)
}

func toEnrollmentResponses(subs []models.Subscription) []dto.EnrollmentResponse {
	result := make([]dto.EnrollmentResponse, 0, len(subs))
	for _, sub := range subs {
		item := dto.EnrollmentResponse{
			StudentID:        sub.StudentID,
			CourseID:         sub.CourseID,
			EnrolmentStatus:  sub.IsActive,
			SubscriptionDate: sub.SubscriptionDate,
			MoneyPaid:        sub.MoneyPaid,
		}
		if sub.Student != nil {
			item.StudentName = sub.Student.Name
			item.StudentEmail = sub.Student.Email
		}
		if sub.Course != nil {
			item.CourseTitle = sub.Course.Name
		}
		result = append(result, item)
	}
	return result
}
