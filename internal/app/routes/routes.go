package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	enrollmentController *controllers.EnrollmentController,
	progressController *controllers.ProgressController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Unknown paths get the standard error envelope instead of gin's plain 404
	router.NoRoute(func(c *gin.Context) {
		middleware.HandleAPIError(c, apperrors.NewResourceNotFoundError("Route not found"))
	})

	// API version group
	v1 := router.Group("/api/v1")

	// Every route below needs a caller; each one then checks its own policy.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	subscriptions := authenticated.Group("/subscriptions")
	{
		student := middleware.RequirePolicy(auth.StudentPolicy)
		subscriptions.GET("/my-courses", student, enrollmentController.GetStudentCourses)
		subscriptions.GET("/mine", student, enrollmentController.GetStudentSubscriptions)
		subscriptions.POST("/courses/:courseId", student, enrollmentController.Subscribe)
		subscriptions.DELETE("/courses/:courseId", student, enrollmentController.Unsubscribe)

		subscriptions.GET("/enrollments", middleware.RequirePolicy(auth.InstructorPolicy), enrollmentController.GetInstructorEnrollments)
		subscriptions.GET("/enrollments/all", middleware.RequirePolicy(auth.InstructorAndAdminPolicy), enrollmentController.GetAllEnrollments)

		admin := middleware.RequirePolicy(auth.AdminPolicy)
		subscriptions.DELETE("/students/:studentId/courses/:courseId", admin, enrollmentController.RemoveSubscription)
		subscriptions.GET("/count", admin, enrollmentController.CountSubscriptions)
		subscriptions.GET("/payments", admin, enrollmentController.GetAllPayments)
	}

	progress := authenticated.Group("/progress")
	{
		progress.POST("/lessons/:lessonId", middleware.RequirePolicy(auth.StudentPolicy), progressController.RecordWatchTime)
	}
}
