package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/dberrors"
	"github.com/yigit/coursehub/internal/pkg/repository"
)

// ProgressService records how long students watch lessons.
type ProgressService struct {
	newUnitOfWork repositories.UnitOfWorkFactory
	logger        zerolog.Logger
}

// NewProgressService creates a new progress service instance
func NewProgressService(newUnitOfWork repositories.UnitOfWorkFactory, logger zerolog.Logger) *ProgressService {
	return &ProgressService{
		newUnitOfWork: newUnitOfWork,
		logger:        logger,
	}
}

// RecordWatchTime adds seconds to the user's watch time on a lesson,
// creating the progress row on first watch.
func (s *ProgressService) RecordWatchTime(ctx context.Context, userID, lessonID int64, seconds int) (*models.LessonProgress, error) {
	if seconds <= 0 {
		return nil, apperrors.NewValidationError("seconds must be positive")
	}

	uow := s.newUnitOfWork()

	lesson, err := uow.Lessons().GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving lesson: %w", err)
	}
	if lesson == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrLessonNotFound, "Lesson not found")
	}

	existing, err := uow.LessonProgress().FindOne(ctx, repository.And(
		repository.Eq(models.ProgressUserID, userID),
		repository.Eq(models.ProgressLessonID, lessonID),
	))
	if err != nil {
		return nil, fmt.Errorf("error retrieving lesson progress: %w", err)
	}

	var progress *models.LessonProgress
	if existing != nil {
		existing.WatchedSeconds += seconds
		progress, err = uow.LessonProgress().Update(ctx, existing.ID, existing)
	} else {
		progress, err = uow.LessonProgress().Add(ctx, &models.LessonProgress{
			UserID:         userID,
			LessonID:       lessonID,
			WatchedSeconds: seconds,
		})
	}
	if err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		if dberrors.IsUniqueViolation(err) {
			// Another request created the row first; the caller may retry.
			return nil, apperrors.NewConflictError("Lesson progress was updated concurrently")
		}
		return nil, fmt.Errorf("error recording watch time: %w", err)
	}

	s.logger.Debug().Int64("userId", userID).Int64("lessonId", lessonID).
		Int("watchedSeconds", progress.WatchedSeconds).Msg("Watch time recorded")
	return progress, nil
}
