package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate runs struct validation against the shared validator instance.
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator exposes the instance for custom configuration.
func GetValidator() *validator.Validate {
	return validate
}
