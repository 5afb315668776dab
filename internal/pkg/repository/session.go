package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// operation is a staged mutation, replayed inside the commit transaction.
type operation struct {
	name string
	run  func(tx *gorm.DB) error
}

// Session is a unit of work over one gorm handle.
//
// Reads go straight to the store. Every mutation made through a repository
// bound to the session is staged and only reaches the store when Commit runs,
// all of them in one transaction and in the order they were staged.
// A Session belongs to one request and must not be shared between goroutines.
type Session struct {
	db      *gorm.DB
	pending []operation
}

// NewSession opens a unit of work on db.
func NewSession(db *gorm.DB) *Session {
	return &Session{db: db}
}

// DB returns the handle reads are executed on.
func (s *Session) DB() *gorm.DB {
	return s.db
}

// Pending reports how many mutations are staged.
func (s *Session) Pending() int {
	return len(s.pending)
}

func (s *Session) stage(name string, run func(tx *gorm.DB) error) {
	s.pending = append(s.pending, operation{name: name, run: run})
}

// Commit applies every staged mutation atomically. The queue is cleared
// whether or not the transaction succeeds.
func (s *Session) Commit(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	ops := s.pending
	s.pending = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, op := range ops {
			if err := op.run(tx); err != nil {
				return fmt.Errorf("staged %s (%d of %d) failed: %w", op.name, i+1, len(ops), err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: commit: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

// Rollback discards staged mutations without touching the store.
func (s *Session) Rollback() {
	s.pending = nil
}
