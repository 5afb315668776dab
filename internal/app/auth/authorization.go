package auth

import (
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   int64
	Email    string
	RoleType models.RoleType
}

// Policy is a named capability a caller must hold to invoke an operation.
type Policy struct {
	Name  string
	roles []models.RoleType
}

// Allows reports whether role satisfies the policy.
func (p Policy) Allows(role models.RoleType) bool {
	for _, r := range p.roles {
		if r == role {
			return true
		}
	}
	return false
}

// Policies guarding the enrollment endpoints.
var (
	StudentPolicy            = Policy{Name: "StudentPolicy", roles: []models.RoleType{models.RoleStudent}}
	InstructorPolicy         = Policy{Name: "InstructorPolicy", roles: []models.RoleType{models.RoleInstructor}}
	AdminPolicy              = Policy{Name: "AdminPolicy", roles: []models.RoleType{models.RoleAdmin}}
	InstructorAndAdminPolicy = Policy{Name: "InstructorAndAdminPolicy", roles: []models.RoleType{models.RoleInstructor, models.RoleAdmin}}
)

// Authorize checks identity against policy before any handler logic runs.
// A missing identity is unauthorized, a wrong role is forbidden.
func Authorize(identity *Identity, policy Policy) error {
	if identity == nil || identity.UserID <= 0 {
		return apperrors.NewCustomError(apperrors.ErrUnauthorized, "Authentication required")
	}
	if !policy.Allows(identity.RoleType) {
		return apperrors.NewForbiddenError("Caller does not satisfy " + policy.Name)
	}
	return nil
}
