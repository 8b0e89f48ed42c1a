package models

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the model specific tags
// registered. Field errors are reported with their JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("username", validateUsername)
		_ = validate.RegisterValidation("platform", validatePlatform)
		_ = validate.RegisterValidation("visibility", validateVisibility)
		_ = validate.RegisterValidation("flowmode", validateFlowMode)
	})
	return validate
}
