package services

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// validVar reports whether value satisfies the validator tag
func validVar(value interface{}, tag string) bool {
	return validate.Var(value, tag) == nil
}
