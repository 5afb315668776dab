package models

import (
	"time"

	"github.com/yigit/coursehub/internal/pkg/repository"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey" example:"1"`
	Name         string    `json:"name" gorm:"size:200;not null" example:"Jane Doe"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null" example:"jane@example.com"`
	PasswordHash string    `json:"-" gorm:"not null"`
	RoleType     RoleType  `json:"roleType" gorm:"size:20;not null;index" example:"STUDENT"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// User columns
const (
	UserID       repository.Field = "id"
	UserName     repository.Field = "name"
	UserEmail    repository.Field = "email"
	UserRoleType repository.Field = "role_type"
)
