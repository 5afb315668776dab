package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// Repository is the data access contract shared by every entity type.
// Reads execute immediately. Mutations are staged on the owning Session.
type Repository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	Query() *Query[T]
	GetAll(ctx context.Context) ([]T, error)
	GetAllOrdered(ctx context.Context, order Order, includes []Include, skip, take int) ([]T, error)
	Find(ctx context.Context, filter Filter, includes ...Include) ([]T, error)
	FindAll(ctx context.Context, spec *Spec) ([]T, error)
	FindAllAsync(ctx context.Context, filter Filter, includes ...Include) <-chan Result[T]
	FindOne(ctx context.Context, filter Filter) (*T, error)
	Add(ctx context.Context, entity *T) (*T, error)
	AddRange(ctx context.Context, entities []T) error
	Delete(ctx context.Context, entity *T) error
	DeleteRange(ctx context.Context, entities []T) error
	Update(ctx context.Context, id int64, entity *T) (*T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Result carries the outcome of an asynchronous read.
type Result[T any] struct {
	Items []T
	Err   error
}

// GormRepository implements Repository on top of gorm.
type GormRepository[T any] struct {
	session *Session
}

// New binds a repository for T to session.
func New[T any](session *Session) *GormRepository[T] {
	return &GormRepository[T]{session: session}
}

func (r *GormRepository[T]) read(ctx context.Context) *gorm.DB {
	return r.session.DB().WithContext(ctx)
}

// GetByID returns the entity with the given primary key, or nil if there is none.
func (r *GormRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := r.read(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get %s %d: %w", apperrors.ErrDatabase, entityName[T](), id, err)
	}
	return &entity, nil
}

// Query returns an empty composable query.
func (r *GormRepository[T]) Query() *Query[T] {
	return newQuery[T](r.session.DB(), NewSpec())
}

// GetAll returns every entity.
func (r *GormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.FindAll(ctx, NewSpec())
}

// GetAllOrdered returns every entity sorted by order, with eager loads and a skip/take window.
func (r *GormRepository[T]) GetAllOrdered(ctx context.Context, order Order, includes []Include, skip, take int) ([]T, error) {
	spec := NewSpec().Include(includes...).Skip(skip).Take(take)
	if order.Field != "" {
		spec.OrderBy(order.Field, order.Direction)
	}
	return r.FindAll(ctx, spec)
}

// Find returns the entities matching filter.
func (r *GormRepository[T]) Find(ctx context.Context, filter Filter, includes ...Include) ([]T, error) {
	return r.FindAll(ctx, NewSpec().Where(filter).Include(includes...))
}

// FindAll executes a full specification.
func (r *GormRepository[T]) FindAll(ctx context.Context, spec *Spec) ([]T, error) {
	return newQuery[T](r.session.DB(), spec).List(ctx)
}

// FindAllAsync runs Find on its own goroutine. The channel yields exactly one Result.
func (r *GormRepository[T]) FindAllAsync(ctx context.Context, filter Filter, includes ...Include) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		items, err := r.Find(ctx, filter, includes...)
		out <- Result[T]{Items: items, Err: err}
	}()
	return out
}

// FindOne returns the first entity matching filter in primary key order, or nil.
func (r *GormRepository[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	return newQuery[T](r.session.DB(), NewSpec().Where(filter)).First(ctx)
}

// Add stages an insert. Store-assigned fields are populated on entity after Commit.
func (r *GormRepository[T]) Add(ctx context.Context, entity *T) (*T, error) {
	if entity == nil {
		return nil, apperrors.NewValidationError("entity must not be nil")
	}
	r.session.stage("add "+entityName[T](), func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
	return entity, nil
}

// AddRange stages a batch insert. IDs are written back into entities on Commit.
func (r *GormRepository[T]) AddRange(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	r.session.stage("add range "+entityName[T](), func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&entities).Error
	})
	return nil
}

// Delete stages removal of entity by primary key.
func (r *GormRepository[T]) Delete(ctx context.Context, entity *T) error {
	if entity == nil {
		return apperrors.NewValidationError("entity must not be nil")
	}
	r.session.stage("delete "+entityName[T](), func(tx *gorm.DB) error {
		return tx.Delete(entity).Error
	})
	return nil
}

// DeleteRange stages removal of every entity in the slice.
func (r *GormRepository[T]) DeleteRange(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	r.session.stage("delete range "+entityName[T](), func(tx *gorm.DB) error {
		return tx.Delete(&entities).Error
	})
	return nil
}

// Update copies every column of entity except the primary key and creation
// timestamps onto the stored row with the given id, then stages the save.
// It returns nil when no row has that id.
func (r *GormRepository[T]) Update(ctx context.Context, id int64, entity *T) (*T, error) {
	if entity == nil {
		return nil, apperrors.NewValidationError("entity must not be nil")
	}
	existing, err := r.GetByID(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	stmt := &gorm.Statement{DB: r.session.DB()}
	if err := stmt.Parse(entity); err != nil {
		return nil, fmt.Errorf("%w: parse %s schema: %w", apperrors.ErrDatabase, entityName[T](), err)
	}
	src := reflect.ValueOf(entity).Elem()
	dst := reflect.ValueOf(existing).Elem()
	for _, f := range stmt.Schema.Fields {
		if f.DBName == "" || f.PrimaryKey || f.AutoCreateTime > 0 {
			continue
		}
		v, _ := f.ValueOf(ctx, src)
		if err := f.Set(ctx, dst, v); err != nil {
			return nil, fmt.Errorf("%w: copy %s.%s: %w", apperrors.ErrDatabase, entityName[T](), f.Name, err)
		}
	}

	r.session.stage("update "+entityName[T](), func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(existing).Error
	})
	return existing, nil
}

// Count returns how many entities match filter. A nil filter counts all of them.
func (r *GormRepository[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	return newQuery[T](r.session.DB(), NewSpec().Where(filter)).Count(ctx)
}

var _ Repository[struct{}] = (*GormRepository[struct{}])(nil)
