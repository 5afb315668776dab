package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

func newTestEnrollmentService(f *fixture) *EnrollmentService {
	svc := NewEnrollmentService(f.factory, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 4, 23, 12, 1, 5, 0, time.FixedZone("UTC+3", 3*3600)) }
	return svc
}

func TestGetStudentCourses_ProgressScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)
	other := f.user(t, "Bob Jones", models.RoleStudent)

	course := f.course(t, "Intro to Go", instructor.ID, 2, 3600)
	lesson := course.Sections[0].Lessons[0]
	f.subscribe(t, student.ID, course.ID, baseTime, true)
	f.watch(t, student.ID, lesson.ID, 1800)
	f.watch(t, other.ID, lesson.ID, 3600)

	got, err := svc.GetStudentCourses(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	c := got[0]
	assert.Equal(t, course.ID, c.CourseID)
	assert.Equal(t, "Intro to Go", c.CourseTitle)
	assert.Equal(t, "intro.to.go.jpg", c.CourseImage)
	assert.Equal(t, 2.0, c.TotalHours)
	assert.Equal(t, 25.0, c.ProgressPercentage)
	assert.Equal(t, dto.CourseStatusOngoing, c.Status)
	assert.Equal(t, "1 / 1 Lectures", c.LecturesProgress)
	assert.Equal(t, "2025-04-23 09:01:05", c.LastUpdated)
}

func TestGetStudentCourses_SkipsInactiveAndGuardsZeroHours(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)

	free := f.course(t, "No Hours", instructor.ID, 0, 600, 600, 600)
	dropped := f.course(t, "Dropped", instructor.ID, 3, 600)
	f.subscribe(t, student.ID, free.ID, baseTime, true)
	f.subscribe(t, student.ID, dropped.ID, baseTime, false)
	f.watch(t, student.ID, free.Sections[0].Lessons[0].ID, 600)
	f.watch(t, student.ID, free.Sections[0].Lessons[1].ID, 0)

	got, err := svc.GetStudentCourses(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].CourseID)
	assert.Equal(t, 0.0, got[0].ProgressPercentage)
	assert.Equal(t, "1 / 3 Lectures", got[0].LecturesProgress)
}

func TestGetStudentCourses_CompletionThreshold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)

	done := f.course(t, "Exactly 92", instructor.ID, 1, 3600)
	almost := f.course(t, "Almost", instructor.ID, 10, 36000)
	f.subscribe(t, student.ID, done.ID, baseTime, true)
	f.subscribe(t, student.ID, almost.ID, baseTime.Add(time.Hour), true)
	f.watch(t, student.ID, done.Sections[0].Lessons[0].ID, 3312)
	f.watch(t, student.ID, almost.Sections[0].Lessons[0].ID, 33084)

	got, err := svc.GetStudentCourses(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[int64]dto.StudentCourseResponse{}
	for _, c := range got {
		byID[c.CourseID] = c
	}
	assert.Equal(t, 92.0, byID[done.ID].ProgressPercentage)
	assert.Equal(t, dto.CourseStatusCompleted, byID[done.ID].Status)
	assert.Equal(t, 91.9, byID[almost.ID].ProgressPercentage)
	assert.Equal(t, dto.CourseStatusOngoing, byID[almost.ID].Status)
}

func TestGetInstructorEnrollments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	ian := f.user(t, "Ian Teach", models.RoleInstructor)
	jane := f.user(t, "Jane Teach", models.RoleInstructor)
	alice := f.user(t, "Alice Smith", models.RoleStudent)
	bob := f.user(t, "Bob Jones", models.RoleStudent)

	goCourse := f.course(t, "Intro to Go", ian.ID, 2)
	rust := f.course(t, "Rust", ian.ID, 2)
	other := f.course(t, "Cooking", jane.ID, 2)

	f.subscribe(t, alice.ID, goCourse.ID, baseTime, true)
	f.subscribe(t, bob.ID, rust.ID, baseTime.Add(2*time.Hour), false)
	f.subscribe(t, bob.ID, goCourse.ID, baseTime.Add(time.Hour), true)
	f.subscribe(t, alice.ID, other.ID, baseTime.Add(3*time.Hour), true)

	got, err := svc.GetInstructorEnrollments(ctx, ian.ID, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Rust", got[0].CourseTitle)
	assert.Equal(t, "Bob Jones", got[0].StudentName)
	assert.Equal(t, "bob.jones@example.com", got[0].StudentEmail)
	assert.False(t, got[0].EnrolmentStatus)
	assert.Equal(t, bob.ID, got[1].StudentID)
	assert.Equal(t, alice.ID, got[2].StudentID)

	latest, err := svc.GetInstructorEnrollments(ctx, ian.ID, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, rust.ID, latest[0].CourseID)
}

func seedEnrollments(t *testing.T, f *fixture, n int) {
	t.Helper()
	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	goCourse := f.course(t, "Intro to Go", instructor.ID, 2)
	cooking := f.course(t, "Cooking Basics", instructor.ID, 2)
	for i := 0; i < n; i++ {
		student := f.user(t, fmt.Sprintf("Student %02d", i), models.RoleStudent)
		course := goCourse
		if i%2 == 1 {
			course = cooking
		}
		f.subscribe(t, student.ID, course.ID, baseTime.Add(time.Duration(i)*time.Hour), true)
	}
}

func TestGetAllEnrollments_Pagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)
	seedEnrollments(t, f, 23)

	page, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 3, PageSize: 10, TotalRecords: 23, TotalPages: 3}, page.Pagination)
	assert.Equal(t, "Student 02", page.Items[0].StudentName)
	assert.Equal(t, "Student 00", page.Items[2].StudentName)

	first, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{})
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 1, first.Pagination.CurrentPage)
	assert.Equal(t, 10, first.Pagination.PageSize)
	assert.Equal(t, "Student 22", first.Items[0].StudentName)

	beyond, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.EqualValues(t, 23, beyond.Pagination.TotalRecords)
}

func TestGetAllEnrollments_HonoursLargePageSize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)
	seedEnrollments(t, f, 130)

	got, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{Page: 1, PageSize: 150})
	require.NoError(t, err)
	assert.Len(t, got.Items, 130)
	assert.Equal(t, dto.PaginationInfo{CurrentPage: 1, PageSize: 150, TotalRecords: 130, TotalPages: 1}, got.Pagination)

	second, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{Page: 2, PageSize: 120})
	require.NoError(t, err)
	assert.Len(t, second.Items, 10)
	assert.Equal(t, 2, second.Pagination.TotalPages)
}

func TestGetAllEnrollments_LatestOverridesPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)
	seedEnrollments(t, f, 23)

	got, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{Page: 2, PageSize: 10, Latest: 5})
	require.NoError(t, err)
	require.Len(t, got.Items, 5)
	assert.Equal(t, "Student 22", got.Items[0].StudentName)
	assert.Equal(t, "Student 18", got.Items[4].StudentName)
	assert.EqualValues(t, 23, got.Pagination.TotalRecords)
	assert.Equal(t, 3, got.Pagination.TotalPages)

	all, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{Latest: 50})
	require.NoError(t, err)
	assert.Len(t, all.Items, 23)
}

func TestGetAllEnrollments_Search(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)
	seedEnrollments(t, f, 6)

	byCourse, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{SearchQuery: "COOKING"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, byCourse.Pagination.TotalRecords)
	for _, item := range byCourse.Items {
		assert.Equal(t, "Cooking Basics", item.CourseTitle)
	}

	byStudent, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{SearchQuery: "student 04"})
	require.NoError(t, err)
	require.Len(t, byStudent.Items, 1)
	assert.Equal(t, "Student 04", byStudent.Items[0].StudentName)

	none, err := svc.GetAllEnrollments(ctx, dto.EnrollmentFilter{SearchQuery: "haskell"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
	assert.Equal(t, 0, none.Pagination.TotalPages)
}

func TestRemoveSubscription(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)
	course := f.course(t, "Intro to Go", instructor.ID, 2)
	f.subscribe(t, student.ID, course.ID, baseTime, true)
	f.setStudentCount(t, course.ID, 4)

	err := svc.RemoveSubscription(ctx, student.ID+100, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
	assert.Equal(t, 4, f.reloadCourse(t, course.ID).StudentCount)

	require.NoError(t, svc.RemoveSubscription(ctx, student.ID, course.ID))
	assert.Equal(t, 3, f.reloadCourse(t, course.ID).StudentCount)

	count, err := svc.CountSubscriptions(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRemoveSubscription_CounterNeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)
	course := f.course(t, "Intro to Go", instructor.ID, 2)
	f.subscribe(t, student.ID, course.ID, baseTime, true)

	require.NoError(t, svc.RemoveSubscription(ctx, student.ID, course.ID))
	assert.Equal(t, 0, f.reloadCourse(t, course.ID).StudentCount)
}

func TestRemoveSubscription_InactiveStillDecrements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)
	course := f.course(t, "Intro to Go", instructor.ID, 2)
	f.subscribe(t, student.ID, course.ID, baseTime, false)
	f.setStudentCount(t, course.ID, 2)

	require.NoError(t, svc.RemoveSubscription(ctx, student.ID, course.ID))
	assert.Equal(t, 1, f.reloadCourse(t, course.ID).StudentCount)
}

func TestSubscribeLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	student := f.user(t, "Alice Smith", models.RoleStudent)
	course := f.course(t, "Intro to Go", instructor.ID, 2)

	_, err := svc.Subscribe(ctx, student.ID, course.ID+100)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	created, err := svc.Subscribe(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.NotZero(t, created.SubscriptionID)
	assert.InDelta(t, 90.0, created.MoneyPaid, 1e-9)
	assert.Equal(t, 1, f.reloadCourse(t, course.ID).StudentCount)

	_, err = svc.Subscribe(ctx, student.ID, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubscribed)

	require.NoError(t, svc.Unsubscribe(ctx, student.ID, course.ID))
	assert.Equal(t, 0, f.reloadCourse(t, course.ID).StudentCount)
	assert.ErrorIs(t, svc.Unsubscribe(ctx, student.ID, course.ID), apperrors.ErrSubscriptionNotFound)

	mine, err := svc.GetStudentSubscriptions(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.False(t, mine[0].IsActive)
	assert.Equal(t, "Intro to Go", mine[0].CourseName)

	again, err := svc.Subscribe(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, created.SubscriptionID, again.SubscriptionID)
	assert.Equal(t, 1, f.reloadCourse(t, course.ID).StudentCount)

	count, err := svc.CountSubscriptions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGetAllPayments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := newTestEnrollmentService(f)

	instructor := f.user(t, "Ian Teach", models.RoleInstructor)
	alice := f.user(t, "Alice Smith", models.RoleStudent)
	bob := f.user(t, "Bob Jones", models.RoleStudent)
	course := f.course(t, "Intro to Go", instructor.ID, 2)
	f.subscribe(t, alice.ID, course.ID, baseTime, true)
	f.subscribe(t, bob.ID, course.ID, baseTime.Add(time.Hour), false)

	payments, err := svc.GetAllPayments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, bob.ID, payments[0].StudentID)
	assert.Equal(t, 90.0, payments[0].MoneyPaid)
}
