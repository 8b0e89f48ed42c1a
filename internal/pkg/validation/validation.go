package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/appfolio/showcase-api/app/models"
	"github.com/appfolio/showcase-api/internal/pkg/apperr"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Struct validates v with its `validate` tags and returns an apperr validation
// error listing every rejected field.
func Struct(v any) error {
	err := models.Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindValidation, "Invalid request", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field: fieldPath(fe),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return apperr.New(apperr.KindValidation, summary(fields)).WithDetail("fields", fields)
}

// Invalid builds a validation error for a single field checked by hand.
func Invalid(field, rule, message string) error {
	return apperr.New(apperr.KindValidation, message).
		WithDetail("fields", []FieldError{{Field: field, Rule: rule}})
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if ns == "" {
		return fe.Field()
	}
	return ns
}

func summary(fields []FieldError) string {
	if len(fields) == 1 {
		f := fields[0]
		return fmt.Sprintf("Invalid value for %s (%s)", f.Field, f.Rule)
	}
	return fmt.Sprintf("Invalid request: %d fields failed validation", len(fields))
}
