package validation

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the DD/MM/YYYY layout accepted by the ddmmyyyy rule
const DateLayout = "02/01/2006"

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with the registrar's custom rules registered
func Validator() *validator.Validate {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator with custom rules and json field names in errors
func New() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register installs the custom rules and json field naming on an existing validator,
// such as the one gin uses for binding tags
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration cannot fail for a non-empty tag and a non-nil func
	_ = v.RegisterValidation("ddmmyyyy", validateDDMMYYYY)
	_ = v.RegisterValidation("notblank", validateNotBlank)
}

// IsDDMMYYYY reports whether value is a real calendar date written DD/MM/YYYY
func IsDDMMYYYY(value string) bool {
	if len(value) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

func validateDDMMYYYY(fl validator.FieldLevel) bool {
	return IsDDMMYYYY(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates a struct with the shared validator
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// Messages turns validator errors into human-readable messages keyed by field
func Messages(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}

	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field()] = Message(e)
	}
	return out
}

// Message creates a human-readable validation error message
func Message(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gte":
		return e.Field() + " must be greater than or equal to " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "ddmmyyyy":
		return e.Field() + " must be a date in DD/MM/YYYY format"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
