package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// EnrollmentService is the subset of services.EnrollmentService the handlers call.
type EnrollmentService interface {
	GetStudentCourses(ctx context.Context, studentID int64) ([]dto.StudentCourseResponse, error)
	GetStudentSubscriptions(ctx context.Context, studentID int64) ([]dto.StudentSubscriptionResponse, error)
	GetInstructorEnrollments(ctx context.Context, instructorID int64, latest int) ([]dto.EnrollmentResponse, error)
	GetAllEnrollments(ctx context.Context, filter dto.EnrollmentFilter) (*dto.EnrollmentPage, error)
	RemoveSubscription(ctx context.Context, studentID, courseID int64) error
	Subscribe(ctx context.Context, studentID, courseID int64) (*dto.SubscribeResponse, error)
	Unsubscribe(ctx context.Context, studentID, courseID int64) error
	CountSubscriptions(ctx context.Context) (int64, error)
	GetAllPayments(ctx context.Context) ([]models.Subscription, error)
}

// EnrollmentController handles subscription and enrollment endpoints
type EnrollmentController struct {
	enrollmentService EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// GetStudentCourses lists the caller's active courses with watch progress
// @Summary My courses
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentCourseResponse}
// @Failure 401 {object} dto.APIResponse
// @Failure 403 {object} dto.APIResponse
// @Router /subscriptions/my-courses [get]
func (c *EnrollmentController) GetStudentCourses(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	courses, err := c.enrollmentService.GetStudentCourses(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, courses, "Courses retrieved successfully"))
}

// GetStudentSubscriptions lists every subscription row of the caller
// @Summary My subscriptions
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentSubscriptionResponse}
// @Router /subscriptions/mine [get]
func (c *EnrollmentController) GetStudentSubscriptions(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}

	subs, err := c.enrollmentService.GetStudentSubscriptions(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, subs, "Subscriptions retrieved successfully"))
}

// Subscribe enrolls the caller in a course
// @Summary Subscribe to a course
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 201 {object} dto.APIResponse{data=dto.SubscribeResponse}
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 409 {object} dto.APIResponse "Already subscribed"
// @Router /subscriptions/courses/{courseId} [post]
func (c *EnrollmentController) Subscribe(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}
	courseID, err := middleware.ParseIDParam(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.enrollmentService.Subscribe(ctx.Request.Context(), studentID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, resp, "Subscribed successfully"))
}

// Unsubscribe ends the caller's active subscription to a course
// @Summary Unsubscribe from a course
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Subscription not found"
// @Router /subscriptions/courses/{courseId} [delete]
func (c *EnrollmentController) Unsubscribe(ctx *gin.Context) {
	studentID, ok := callerID(ctx)
	if !ok {
		return
	}
	courseID, err := middleware.ParseIDParam(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.enrollmentService.Unsubscribe(ctx.Request.Context(), studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, "Unsubscribed successfully"))
}

// RemoveSubscription deletes a student's subscription (admin)
// @Summary Remove a subscription
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid identifier"
// @Failure 404 {object} dto.APIResponse "Subscription not found"
// @Router /subscriptions/students/{studentId}/courses/{courseId} [delete]
func (c *EnrollmentController) RemoveSubscription(ctx *gin.Context) {
	studentID, err := middleware.ParseIDParam(ctx, "studentId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	courseID, err := middleware.ParseIDParam(ctx, "courseId")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.enrollmentService.RemoveSubscription(ctx.Request.Context(), studentID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, nil, "Subscription removed successfully"))
}

// GetInstructorEnrollments lists enrollments in the caller's courses
// @Summary Enrollments in my courses
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param latest query int false "Return only the N most recent"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse}
// @Router /subscriptions/enrollments [get]
func (c *EnrollmentController) GetInstructorEnrollments(ctx *gin.Context) {
	instructorID, ok := callerID(ctx)
	if !ok {
		return
	}
	var query dto.EnrollmentsQuery
	if err := middleware.BindQuery(ctx, &query); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	enrollments, err := c.enrollmentService.GetInstructorEnrollments(ctx.Request.Context(), instructorID, query.Latest)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, enrollments, "Enrollments retrieved successfully"))
}

// GetAllEnrollments lists every enrollment with search and paging
// @Summary All enrollments
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param searchQuery query string false "Student or course name fragment"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param latest query int false "Return only the N most recent"
// @Success 200 {object} dto.PaginatedResponse{data=[]dto.EnrollmentResponse}
// @Router /subscriptions/enrollments/all [get]
func (c *EnrollmentController) GetAllEnrollments(ctx *gin.Context) {
	var filter dto.EnrollmentFilter
	if err := middleware.BindQuery(ctx, &filter); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, err := c.enrollmentService.GetAllEnrollments(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	pagination := page.Pagination
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(http.StatusOK, page.Items, "Enrollments retrieved successfully", &pagination))
}

// CountSubscriptions returns the total number of subscriptions
// @Summary Subscription count
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SubscriptionCountResponse}
// @Router /subscriptions/count [get]
func (c *EnrollmentController) CountSubscriptions(ctx *gin.Context) {
	count, err := c.enrollmentService.CountSubscriptions(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK,
		dto.SubscriptionCountResponse{Count: count}, "Subscription count retrieved successfully"))
}

// GetAllPayments lists every subscription, newest first
// @Summary Payments
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subscription}
// @Router /subscriptions/payments [get]
func (c *EnrollmentController) GetAllPayments(ctx *gin.Context) {
	payments, err := c.enrollmentService.GetAllPayments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, payments, "Payments retrieved successfully"))
}

// callerID returns the authenticated user id, writing a 401 when there is none.
func callerID(ctx *gin.Context) (int64, bool) {
	identity := middleware.GetIdentity(ctx)
	if identity == nil || identity.UserID <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrUnauthorized, "Authentication required"))
		return 0, false
	}
	return identity.UserID, true
}
