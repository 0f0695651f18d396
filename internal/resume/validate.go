package resume

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/resume.schema.json
var schemaJSON []byte

// ErrInvalidJSON is returned when a request body is not JSON at all
var ErrInvalidJSON = errors.New("invalid JSON body")

// FieldError describes one rejected field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a resume body breaks the schema or the
// field rules. Every offending field is listed.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	})

	structValidator = newStructValidator()
)

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so errors line up with the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeContent checks raw against the resume JSON schema and decodes it.
// Server-managed keys (id, userId, timestamps) are accepted and ignored.
func DecodeContent(raw []byte) (Content, error) {
	if !json.Valid(raw) {
		return Content{}, ErrInvalidJSON
	}

	schema, err := loadSchema()
	if err != nil {
		return Content{}, fmt.Errorf("failed to load resume schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Content{}, fmt.Errorf("failed to validate resume: %w", err)
	}
	if !result.Valid() {
		verr := &ValidationError{}
		for _, e := range result.Errors() {
			verr.Fields = append(verr.Fields, FieldError{Field: e.Field(), Message: e.Description()})
		}
		return Content{}, verr
	}

	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return Content{}, fmt.Errorf("failed to decode resume: %w", err)
	}
	return c, nil
}

// Prepare applies defaults and validates c in place. It runs before every
// write. Text is stored as sent; escaping happens when a resume is rendered.
func Prepare(c *Content) error {
	c.Normalize()

	if err := structValidator.Struct(c); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			verr := &ValidationError{}
			for _, fe := range ves {
				verr.Fields = append(verr.Fields, FieldError{
					Field:   strings.TrimPrefix(fe.Namespace(), "Content."),
					Message: describe(fe),
				})
			}
			return verr
		}
		return fmt.Errorf("failed to validate resume: %w", err)
	}

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
