package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockEnrollmentService struct {
	mock.Mock
}

func (m *mockEnrollmentService) GetStudentCourses(ctx context.Context, studentID int64) ([]dto.StudentCourseResponse, error) {
	args := m.Called(ctx, studentID)
	courses, _ := args.Get(0).([]dto.StudentCourseResponse)
	return courses, args.Error(1)
}

func (m *mockEnrollmentService) GetStudentSubscriptions(ctx context.Context, studentID int64) ([]dto.StudentSubscriptionResponse, error) {
	args := m.Called(ctx, studentID)
	subs, _ := args.Get(0).([]dto.StudentSubscriptionResponse)
	return subs, args.Error(1)
}

func (m *mockEnrollmentService) GetInstructorEnrollments(ctx context.Context, instructorID int64, latest int) ([]dto.EnrollmentResponse, error) {
	args := m.Called(ctx, instructorID, latest)
	enrollments, _ := args.Get(0).([]dto.EnrollmentResponse)
	return enrollments, args.Error(1)
}

func (m *mockEnrollmentService) GetAllEnrollments(ctx context.Context, filter dto.EnrollmentFilter) (*dto.EnrollmentPage, error) {
	args := m.Called(ctx, filter)
	page, _ := args.Get(0).(*dto.EnrollmentPage)
	return page, args.Error(1)
}

func (m *mockEnrollmentService) RemoveSubscription(ctx context.Context, studentID, courseID int64) error {
	return m.Called(ctx, studentID, courseID).Error(0)
}

func (m *mockEnrollmentService) Subscribe(ctx context.Context, studentID, courseID int64) (*dto.SubscribeResponse, error) {
	args := m.Called(ctx, studentID, courseID)
	resp, _ := args.Get(0).(*dto.SubscribeResponse)
	return resp, args.Error(1)
}

func (m *mockEnrollmentService) Unsubscribe(ctx context.Context, studentID, courseID int64) error {
	return m.Called(ctx, studentID, courseID).Error(0)
}

func (m *mockEnrollmentService) CountSubscriptions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollmentService) GetAllPayments(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	subs, _ := args.Get(0).([]models.Subscription)
	return subs, args.Error(1)
}

// withIdentity stands in for JWTAuth in handler tests.
func withIdentity(userID int64, role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID > 0 {
			c.Set(middleware.IdentityKey, &auth.Identity{UserID: userID, RoleType: role})
		}
		c.Next()
	}
}

type envelope struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Error      *dto.ErrorDetail    `json:"error"`
	Pagination *dto.PaginationInfo `json:"pagination"`
}

func perform(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func newEnrollmentRouter(svc EnrollmentService, userID int64, role models.RoleType) *gin.Engine {
	c := NewEnrollmentController(svc)
	r := gin.New()
	g := r.Group("/subscriptions", withIdentity(userID, role))
	g.GET("/my-courses", c.GetStudentCourses)
	g.GET("/mine", c.GetStudentSubscriptions)
	g.POST("/courses/:courseId", c.Subscribe)
	g.DELETE("/courses/:courseId", c.Unsubscribe)
	g.DELETE("/students/:studentId/courses/:courseId", c.RemoveSubscription)
	g.GET("/enrollments", c.GetInstructorEnrollments)
	g.GET("/enrollments/all", c.GetAllEnrollments)
	g.GET("/count", c.CountSubscriptions)
	g.GET("/payments", c.GetAllPayments)
	return r
}

func TestGetStudentCourses(t *testing.T) {
	svc := new(mockEnrollmentService)
	courses := []dto.StudentCourseResponse{{CourseID: 3, CourseTitle: "Go", ProgressPercentage: 25, Status: dto.CourseStatusOngoing}}
	svc.On("GetStudentCourses", mock.Anything, int64(42)).Return(courses, nil)

	w, env := perform(t, newEnrollmentRouter(svc, 42, models.RoleStudent), http.MethodGet, "/subscriptions/my-courses", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got []dto.StudentCourseResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, courses, got)
	svc.AssertExpectations(t)
}

func TestGetStudentCourses_NoIdentity(t *testing.T) {
	svc := new(mockEnrollmentService)

	w, env := perform(t, newEnrollmentRouter(svc, 0, ""), http.MethodGet, "/subscriptions/my-courses", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, env.Error.Code)
	svc.AssertNotCalled(t, "GetStudentCourses", mock.Anything, mock.Anything)
}

func TestGetStudentSubscriptions(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("GetStudentSubscriptions", mock.Anything, int64(42)).
		Return([]dto.StudentSubscriptionResponse{{CourseID: 1, CourseName: "Go", IsActive: true}}, nil)

	w, env := perform(t, newEnrollmentRouter(svc, 42, models.RoleStudent), http.MethodGet, "/subscriptions/mine", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"courseName":"Go"`)
	svc.AssertExpectations(t)
}

func TestSubscribe(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("Subscribe", mock.Anything, int64(42), int64(3)).
		Return(&dto.SubscribeResponse{SubscriptionID: 9, CourseID: 3, MoneyPaid: 90, SubscriptionDate: time.Now()}, nil)

	w, env := perform(t, newEnrollmentRouter(svc, 42, models.RoleStudent), http.MethodPost, "/subscriptions/courses/3", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Contains(t, string(env.Data), `"subscriptionId":9`)
	svc.AssertExpectations(t)
}

func TestSubscribe_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"course missing", apperrors.NewCustomError(apperrors.ErrCourseNotFound, "Course not found"), http.StatusNotFound},
		{"already subscribed", apperrors.NewCustomError(apperrors.ErrAlreadySubscribed, "Already subscribed"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockEnrollmentService)
			svc.On("Subscribe", mock.Anything, int64(42), int64(3)).Return(nil, tt.err)

			w, _ := perform(t, newEnrollmentRouter(svc, 42, models.RoleStudent), http.MethodPost, "/subscriptions/courses/3", "")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubscribe_BadCourseID(t *testing.T) {
	svc := new(mockEnrollmentService)

	w, env := perform(t, newEnrollmentRouter(svc, 42, models.RoleStudent), http.MethodPost, "/subscriptions/courses/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeBadRequest, env.Error.Code)
	svc.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnsubscribe(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("Unsubscribe", mock.Anything, int64(42), int64(3)).Return(nil)

	w, _ := perform(t, newEnrollmentRouter(svc, 42, models.RoleStudent), http.MethodDelete, "/subscriptions/courses/3", "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestRemoveSubscription(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("RemoveSubscription", mock.Anything, int64(5), int64(3)).Return(nil).Once()
	svc.On("RemoveSubscription", mock.Anything, int64(6), int64(3)).
		Return(apperrors.NewCustomError(apperrors.ErrSubscriptionNotFound, "Subscription not found")).Once()
	r := newEnrollmentRouter(svc, 1, models.RoleAdmin)

	w, _ := perform(t, r, http.MethodDelete, "/subscriptions/students/5/courses/3", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := perform(t, r, http.MethodDelete, "/subscriptions/students/6/courses/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Subscription not found", env.Error.Message)

	w, _ = perform(t, r, http.MethodDelete, "/subscriptions/students/0/courses/3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestGetInstructorEnrollments(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("GetInstructorEnrollments", mock.Anything, int64(7), 5).
		Return([]dto.EnrollmentResponse{{StudentID: 1, CourseID: 2, EnrolmentStatus: true}}, nil)
	r := newEnrollmentRouter(svc, 7, models.RoleInstructor)

	w, _ := perform(t, r, http.MethodGet, "/subscriptions/enrollments?latest=5", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodGet, "/subscriptions/enrollments?latest=-2", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNumberOfCalls(t, "GetInstructorEnrollments", 1)
}

func TestGetAllEnrollments(t *testing.T) {
	svc := new(mockEnrollmentService)
	filter := dto.EnrollmentFilter{SearchQuery: "go", Page: 3, PageSize: 10}
	svc.On("GetAllEnrollments", mock.Anything, filter).Return(&dto.EnrollmentPage{
		Items:      []dto.EnrollmentResponse{{StudentID: 1}, {StudentID: 2}, {StudentID: 3}},
		Pagination: dto.PaginationInfo{CurrentPage: 3, PageSize: 10, TotalRecords: 23, TotalPages: 3},
	}, nil)

	w, env := perform(t, newEnrollmentRouter(svc, 1, models.RoleAdmin), http.MethodGet,
		"/subscriptions/enrollments/all?searchQuery=go&page=3&pageSize=10", "")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 3, PageSize: 10, TotalRecords: 23, TotalPages: 3}, *env.Pagination)
	var items []dto.EnrollmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 3)
	svc.AssertExpectations(t)
}

func TestGetAllEnrollments_InvalidQuery(t *testing.T) {
	svc := new(mockEnrollmentService)

	w, env := perform(t, newEnrollmentRouter(svc, 1, models.RoleAdmin), http.MethodGet,
		"/subscriptions/enrollments/all?page=x", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
	svc.AssertNotCalled(t, "GetAllEnrollments", mock.Anything, mock.Anything)
}

func TestCountSubscriptions(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("CountSubscriptions", mock.Anything).Return(int64(23), nil)

	w, env := perform(t, newEnrollmentRouter(svc, 1, models.RoleAdmin), http.MethodGet, "/subscriptions/count", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":23}`, string(env.Data))
}

func TestGetAllPayments_StoreFailure(t *testing.T) {
	svc := new(mockEnrollmentService)
	svc.On("GetAllPayments", mock.Anything).Return(nil, apperrors.ErrDatabase)

	w, env := perform(t, newEnrollmentRouter(svc, 1, models.RoleAdmin), http.MethodGet, "/subscriptions/payments", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeDatabaseError, env.Error.Code)
}
