package validator

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// max counts runes; maxbytes counts the UTF-8 encoded length.
		_ = validate.RegisterValidation("maxbytes", maxBytes)
	})
	return validate
}

// Var validates a single value against a validator tag, e.g. "url" or "max=35".
func Var(value any, tag string) error {
	return get().Var(value, tag)
}

// Fields validates a struct and returns a map of field name to failed rule.
// Returns nil if the struct is valid.
func Fields(v any) map[string]string {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		fields[fe.Field()] = rule
	}
	return fields
}

func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}
