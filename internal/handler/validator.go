package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gift-service/internal/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic("failed to register notblank validation: " + err.Error())
	}
	return &Validator{validate: v}
}

// Validate returns a Validation error listing every failed field
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.BadRequest(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return apperror.Validation(strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// bindAndValidate decodes the request into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.BadRequest("malformed request body")
	}
	return c.Validate(req)
}
