package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-builder/internal/types"
)

// validate reports field names by their json tag so errors point at the
// wire-format path the client actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Document decodes and validates an untrusted byte payload as a CvDocument.
// On success the returned document is normalized: list fields are never nil.
func Document(data []byte) (*types.CvDocument, error) {
	var doc types.CvDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()}
	}
	if err := Struct(&doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}

// Struct validates an already-decoded CvDocument against the schema rules:
// presence and type of every required field, syntactically valid email,
// known skill levels.
func Struct(doc *types.CvDocument) error {
	err := validate.Struct(doc)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &Error{Field: fieldPath(first), Reason: reason(first)}
	}
	return err
}

// fieldPath converts a validator namespace like
// "CvDocument.experiences[0].jobTitle" into "experiences[0].jobTitle".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
