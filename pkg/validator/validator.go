package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	accountEmailPattern = regexp.MustCompile(`^\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b$`)
	phonePattern        = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// ValidationError describes one field that failed a rule.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param"`
}

// ValidationErrors collects every failure of a single Struct call, in field order.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	for i, fe := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe.Field + " failed on " + fe.Tag)
		if fe.Param != "" {
			b.WriteString("=" + fe.Param)
		}
	}
	return b.String()
}

// Struct validates s against its `validate` tags. Failures are reported with json field names.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	failures := make(ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		failures = append(failures, ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return failures
}

// First returns the first field failure carried by err. Errors that did not come from Struct
// are reported against the request body.
func First(err error) ValidationError {
	var failures ValidationErrors
	if errors.As(err, &failures) && len(failures) > 0 {
		return failures[0]
	}
	return ValidationError{Field: "body", Tag: "invalid"}
}

// RegisterValidation adds a custom rule under tag.
func RegisterValidation(tag string, fn validator.Func) error {
	return instance().RegisterValidation(tag, fn)
}

// IsAccountEmail reports whether value is acceptable as an account email address.
func IsAccountEmail(value string) bool {
	return len(value) <= 40 && accountEmailPattern.MatchString(value)
}

// IsPhone reports whether value looks like a dialable phone number. Spaces and dashes are ignored.
func IsPhone(value string) bool {
	return phonePattern.MatchString(strings.NewReplacer(" ", "", "-", "").Replace(value))
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
			return IsAccountEmail(fl.Field().String())
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
	})
	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
