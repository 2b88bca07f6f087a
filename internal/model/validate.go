package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	}); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}
	return v
}

// Validate checks preference limits accepted by the quote backend.
// Topic and Style are checked after trimming, as they are sent.
func (p Preferences) Validate() error {
	p.Topic = strings.TrimSpace(p.Topic)
	p.Style = strings.TrimSpace(p.Style)
	if err := validate.Struct(p); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}
	return fmt.Errorf("invalid preferences: %s", strings.Join(errs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "category":
		return fmt.Sprintf("%s must be one of: %s", field, CategoryList())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
