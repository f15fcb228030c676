package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"campusvote/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	// Report json names so clients see the fields they sent
	val.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = val.RegisterValidation("election_status", func(fl validator.FieldLevel) bool {
		return domain.ElectionStatus(fl.Field().String()).Valid()
	})
	return val
}

// Struct validates s against its validate tags.
// Failures are returned as VALIDATION_FAILED listing each offending field.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.Wrap(domain.ErrValidation, err)
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return domain.WithMessage(domain.ErrValidation, "invalid fields: %s", strings.Join(parts, "; "))
}
