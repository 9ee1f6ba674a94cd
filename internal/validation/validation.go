// Package validation holds the shared machinery behind the per-entity validators: a structured
// Result of field errors and a configured go-playground validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// FieldError names one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is either OK or a list of field errors.
type Result struct {
	Errors []FieldError `json:"errors,omitempty"`
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Add records a field error.
func (r *Result) Add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// Merge appends other's errors, skipping fields already reported.
func (r *Result) Merge(other Result) {
	for _, fe := range other.Errors {
		if r.Has(fe.Field) {
			continue
		}
		r.Errors = append(r.Errors, fe)
	}
}

// Has reports whether field already carries an error.
func (r Result) Has(field string) bool {
	for _, fe := range r.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err converts a failed result into a VALIDATION_ERROR whose details map field to message.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	details := make(map[string]string, len(r.Errors))
	for _, fe := range r.Errors {
		details[fe.Field] = fe.Message
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator with json tag names and marketplace rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return f.Name
			}
			return tag
		})
		mustRegister(v, "notblank", validators.NotBlank)
		mustRegister(v, "product_category", func(fl validator.FieldLevel) bool {
			_, err := enums.ParseProductCategory(fl.Field().String())
			return err == nil
		})
		mustRegister(v, "vendor_type", func(fl validator.FieldLevel) bool {
			return enums.VendorType(fl.Field().String()).IsValid()
		})
		mustRegister(v, "user_role", func(fl validator.FieldLevel) bool {
			return enums.UserRole(fl.Field().String()).IsValid()
		})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct runs the tag rules on v and returns them as a Result.
func Struct(v any) Result {
	var res Result
	err := Validator().Struct(v)
	if err == nil {
		return res
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		res.Add("_", err.Error())
		return res
	}
	for _, fe := range errs {
		res.Add(fieldPath(fe), Message(fe))
	}
	return res
}

// fieldPath drops the root struct name from the namespace, e.g. Payload.shipping.city -> shipping.city.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

// Message renders a human readable message for a tag failure.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "nefield":
		return fmt.Sprintf("must differ from %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "product_category":
		return "is not a known category"
	case "vendor_type":
		return "must be manufacturer, dealer or broker"
	case "user_role":
		return "must be vendor or buyer"
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must contain only digits"
	case "unique":
		return "must not contain duplicates"
	}
	return "is invalid"
}
