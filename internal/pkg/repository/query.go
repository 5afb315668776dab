package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// Query is a composable, not yet executed read over T.
type Query[T any] struct {
	db   *gorm.DB
	spec *Spec
}

func newQuery[T any](db *gorm.DB, spec *Spec) *Query[T] {
	return &Query[T]{db: db, spec: spec.clone()}
}

// Where narrows the query. Repeated calls are combined with AND.
func (q *Query[T]) Where(f Filter) *Query[T] {
	q.spec.Where(f)
	return q
}

// Include eager-loads relations.
func (q *Query[T]) Include(includes ...Include) *Query[T] {
	q.spec.Include(includes...)
	return q
}

// OrderBy appends a sort key.
func (q *Query[T]) OrderBy(field Field, dir Direction) *Query[T] {
	q.spec.OrderBy(field, dir)
	return q
}

// Skip drops the first n rows.
func (q *Query[T]) Skip(n int) *Query[T] {
	q.spec.Skip(n)
	return q
}

// Take limits the result to n rows.
func (q *Query[T]) Take(n int) *Query[T] {
	q.spec.Take(n)
	return q
}

// List executes the query and returns every matching row.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	tx, err := applySpec(q.db.WithContext(ctx), q.spec)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", apperrors.ErrDatabase, entityName[T](), err)
	}
	return items, nil
}

// First returns the first matching row, or nil when nothing matches.
// Without an explicit order rows are taken in primary key order.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	tx, err := applySpec(q.db.WithContext(ctx), q.spec)
	if err != nil {
		return nil, err
	}
	var item T
	if err := tx.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: first %s: %w", apperrors.ErrDatabase, entityName[T](), err)
	}
	return &item, nil
}

// Count returns the number of rows matching the filter. Ordering, includes
// and the skip/take window do not affect the count.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	tx, err := applyFilter(q.db.WithContext(ctx).Model(new(T)), q.spec.Filter())
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count %s: %w", apperrors.ErrDatabase, entityName[T](), err)
	}
	return n, nil
}

// applySpec applies filter, includes, ordering, skip and take in that order.
func applySpec(tx *gorm.DB, spec *Spec) (*gorm.DB, error) {
	tx, err := applyFilter(tx, spec.Filter())
	if err != nil {
		return nil, err
	}
	for _, inc := range spec.Includes() {
		tx = tx.Preload(string(inc))
	}
	for _, o := range spec.Orders() {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(o.Field)},
			Desc:   o.Direction == Descending,
		})
	}
	skip, take := spec.Window()
	if skip > 0 {
		tx = tx.Offset(skip)
	}
	if take > 0 {
		tx = tx.Limit(take)
	}
	return tx, nil
}

func applyFilter(tx *gorm.DB, f Filter) (*gorm.DB, error) {
	sql, args, err := ToSQL(f)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, fmt.Sprintf("invalid filter: %v", err))
	}
	if sql == "" {
		return tx, nil
	}
	return tx.Where(sql, args...), nil
}

func entityName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}
