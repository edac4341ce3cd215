package v1

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	pinPattern    = regexp.MustCompile(`^[0-9]{4}$`)
	statusPattern = regexp.MustCompile(`^[a-z][a-z_]{1,31}$`)
)

// RegisterValidators adds the custom binding tags:
//
//	pin        four digits
//	docstatus  a lower-case status token such as partially_paid
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("docstatus", func(fl validator.FieldLevel) bool {
		return statusPattern.MatchString(fl.Field().String())
	})
}
