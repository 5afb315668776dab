package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/repository"
)

// UnitOfWork bundles one repository per entity over a single session.
// Mutations staged through any of them are committed together.
type UnitOfWork interface {
	Users() repository.Repository[models.User]
	Courses() repository.Repository[models.Course]
	Lessons() repository.Repository[models.Lesson]
	Subscriptions() repository.Repository[models.Subscription]
	LessonProgress() repository.Repository[models.LessonProgress]
	Commit(ctx context.Context) error
	Rollback()
}

// UnitOfWorkFactory opens a fresh unit of work, one per service call.
type UnitOfWorkFactory func() UnitOfWork

// GormUnitOfWork is the gorm backed UnitOfWork.
type GormUnitOfWork struct {
	session        *repository.Session
	users          *repository.GormRepository[models.User]
	courses        *repository.GormRepository[models.Course]
	lessons        *repository.GormRepository[models.Lesson]
	subscriptions  *repository.GormRepository[models.Subscription]
	lessonProgress *repository.GormRepository[models.LessonProgress]
}

// NewUnitOfWork opens a unit of work on db.
func NewUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	session := repository.NewSession(db)
	return &GormUnitOfWork{
		session:        session,
		users:          repository.New[models.User](session),
		courses:        repository.New[models.Course](session),
		lessons:        repository.New[models.Lesson](session),
		subscriptions:  repository.New[models.Subscription](session),
		lessonProgress: repository.New[models.LessonProgress](session),
	}
}

// NewUnitOfWorkFactory returns a factory producing units of work on db.
func NewUnitOfWorkFactory(db *gorm.DB) UnitOfWorkFactory {
	return func() UnitOfWork {
		return NewUnitOfWork(db)
	}
}

func (u *GormUnitOfWork) Users() repository.Repository[models.User] { return u.users }

func (u *GormUnitOfWork) Courses() repository.Repository[models.Course] { return u.courses }

func (u *GormUnitOfWork) Lessons() repository.Repository[models.Lesson] { return u.lessons }

func (u *GormUnitOfWork) Subscriptions() repository.Repository[models.Subscription] {
	return u.subscriptions
}

func (u *GormUnitOfWork) LessonProgress() repository.Repository[models.LessonProgress] {
	return u.lessonProgress
}

// Commit applies everything staged on the session in one transaction.
func (u *GormUnitOfWork) Commit(ctx context.Context) error {
	return u.session.Commit(ctx)
}

// Rollback discards staged work.
func (u *GormUnitOfWork) Rollback() {
	u.session.Rollback()
}
