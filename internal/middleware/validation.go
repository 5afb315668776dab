package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

var validate = validator.New()

// BindQuery binds query parameters into obj and validates its `validate` tags.
func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid query parameters").
			WithDetails(map[string]interface{}{"query": err.Error()})
	}
	return validateStruct(obj)
}

// BindJSON binds the request body into obj and validates its `validate` tags.
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Invalid request format").
			WithDetails(map[string]interface{}{"body": err.Error()})
	}
	return validateStruct(obj)
}

// ParseIDParam reads a positive integer path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewBadRequestError("Invalid "+name).
			WithDetails(map[string]interface{}{name: c.Param(name)})
	}
	return id, nil
}

func validateStruct(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}
	details := make(map[string]interface{}, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = formatValidationError(fe)
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Validation failed").WithDetails(details)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min", "gte":
		return e.Field() + " must be at least " + e.Param()
	case "max", "lte":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
