package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
)

// ProgressService records lesson watch time.
type ProgressService interface {
	RecordWatchTime(ctx context.Context, userID, lessonID int64, seconds int) (*models.LessonProgress, error)
}

// ProgressController handles lesson progress endpoints
type ProgressController struct {
	progressService ProgressService
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService ProgressService) *ProgressController {
	return &ProgressController{
		progressService: progressService,
	}
}

// RecordWatchTime adds watched seconds to the caller's progress on a lesson
// @Summary Record watch time
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lessonId path int true "Lesson ID"
// @Param request body dto.RecordWatchTimeRequest true "Seconds watched"
// @Success 200 {object} dto.APIResponse{data=dto.LessonProgressResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Lesson not found"
// @Router /progress/lessons/{lessonId} [post]
func (c *ProgressController) RecordWatchTime(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	lessonID, err := middleware.ParseIDParam(ctx, "lessonId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.RecordWatchTimeRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	progress, err := c.progressService.RecordWatchTime(ctx.Request.Context(), userID, lessonID, req.Seconds)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, dto.LessonProgressResponse{
		LessonID:       progress.LessonID,
		WatchedSeconds: progress.WatchedSeconds,
	}, "Watch time recorded"))
}
