// Package validator decodes and validates JSON request bodies with
// go-playground/validator tags. Field errors are reported under their JSON
// names.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/clickcollect/pkg/httpx"
)

// maxIDLength bounds opaque identifiers accepted from clients.
const maxIDLength = 64

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	// opaqueid: a non-empty identifier without whitespace, as issued for
	// users, products, lists and items.
	_ = v.RegisterValidation("opaqueid", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && len(s) <= maxIDLength && strings.IndexFunc(s, unicode.IsSpace) < 0
	})
	return v
}

// ValidationErrorBody is the 422 response for a body that fails validation.
type ValidationErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// Validate checks s against its validate tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors maps each failing JSON field to a message. Errors
// other than validation errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "This field is required"
	case "opaqueid":
		return fmt.Sprintf("Must be an identifier of at most %d characters without spaces", maxIDLength)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s entry", fe.Param())
		}
		return fmt.Sprintf("Minimum length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", fe.Tag())
	}
}

// ValidateRequest decodes the body into T and validates it. On failure it
// writes 400 for malformed JSON or 422 with the failing fields, and
// returns false.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, ValidationErrorBody{
			Error:  "Validation failed",
			Fields: FormatValidationErrors(err),
		})
		return nil, false
	}
	return &req, true
}
