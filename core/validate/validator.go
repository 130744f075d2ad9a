// Package validate adapts go-playground/validator to echo.Validator.
package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	commonTags := []string{
		"json",
		"query",
		"param",
		"header",
	}

	// report fields by their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range commonTags {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return ""
	})

	return &Validator{validate: validate}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Message flattens validation errors into one line.
func Message(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			parts[i] = fe.Field() + " must satisfy " + fe.Tag() + "=" + fe.Param()
		} else {
			parts[i] = fe.Field() + " must satisfy " + fe.Tag()
		}
	}
	return strings.Join(parts, "; ")
}
