// Package validator wires go-playground/validator into echo's binding pipeline.
package validator

import (
	"strings"
	"unicode"

	domainerrors "stockroom/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// requestValidator implements echo.Validator on top of go-playground/validator.
type requestValidator struct {
	validate *validator.Validate
}

// New builds the request validator with the project's custom rules registered.
func New() *requestValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// nospaces rejects any whitespace character; used for passwords.
	_ = validate.RegisterValidation("nospaces", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
	})

	return &requestValidator{validate: validate}
}

// Validate implements echo.Validator. Violations surface as a domain
// validation error with the offending fields in the details.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var fields []string
		var validationErrs validator.ValidationErrors
		if ok := isValidationErrors(err, &validationErrs); ok {
			for _, fieldErr := range validationErrs {
				fields = append(fields, fieldErr.Field()+" failed on '"+fieldErr.Tag()+"'")
			}
		}

		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(fields, "; "))
	}

	return nil
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok {
		*target = errs

		return true
	}

	return false
}
