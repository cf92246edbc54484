package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

// New registers the custom rules used by the intake and admin payloads.
// "estado" validity is checked downstream against the closed status
// vocabulary; here we only validate shape-level concerns.
func New() *Validator {
	v := validator.New()

	phoneRegex := regexp.MustCompile(`^\+?[0-9][0-9 \-]{5,19}$`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(strings.TrimSpace(value))
	})

	// monto: numeric-as-string, non-negative. Empty means "not quoted" and
	// is allowed (distinct from zero).
	v.RegisterValidation("monto", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return true
		}
		f, err := strconv.ParseFloat(value, 64)
		return err == nil && f >= 0
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
