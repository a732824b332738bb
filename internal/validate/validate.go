// Package validate runs struct-tag validation and turns binding failures
// into field-level domain errors.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"consult-booking-backend/internal/apperr"
	"consult-booking-backend/internal/catalog"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator. It reads the same "binding" tags
// gin does and reports fields by their JSON names.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.SetTagName("binding")
		instance.RegisterTagNameFunc(JSONName)
	})
	return instance
}

// UseJSONNamesInGin makes gin's own binding validator report JSON field
// names, so both paths produce the same FieldError list.
func UseJSONNamesInGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(JSONName)
	}
}

// JSONName is a validator.TagNameFunc returning the json tag of a field.
func JSONName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// Struct validates s and returns an apperr validation error naming every
// offending field, or nil.
func Struct(s any) error {
	if err := Validator().Struct(s); err != nil {
		return FromBinding(err, nil)
	}
	return nil
}

// FromBinding converts a request decoding or validation failure into an
// apperr validation error. aliases renames catalog field names to the
// request's own names (e.g. "time" -> "consultationTime").
func FromBinding(err error, aliases map[string]string) error {
	var (
		verrs   validator.ValidationErrors
		invalid *catalog.InvalidValueError
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)

	switch {
	case errors.As(err, &verrs):
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: message(fe)})
		}
		return apperr.Validation(fields...)
	case errors.As(err, &invalid):
		field := invalid.Field
		if alias, ok := aliases[field]; ok {
			field = alias
		}
		return apperr.Validation(apperr.FieldError{Field: field, Message: fmt.Sprintf("unrecognized value %q", invalid.Value)})
	case errors.As(err, &typeErr):
		return apperr.Validation(apperr.FieldError{Field: typeErr.Field, Message: "has the wrong type"})
	case errors.As(err, &synErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "must be a valid JSON object"})
	default:
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "is invalid"})
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}
