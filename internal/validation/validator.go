// Sacavia - Social Discovery Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sacavia

// Package validation wraps go-playground/validator with a shared instance,
// the custom tags used by documents and feed requests, and translation to
// the API's VALIDATION_ERROR format.
//
// Custom tags:
//   - docid: 1-64 characters of [A-Za-z0-9_-]
//   - interest: 1-64 printable characters, no commas
//
// Documents loaded from the store are checked at the fetch boundary and
// invalid ones are skipped. HTTP query parameters are checked before the
// feed engine sees them:
//
//	type feedQuery struct {
//	    Limit     int      `validate:"gte=1,lte=100"`
//	    Interests []string `validate:"max=20,dive,interest"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is one field that failed a tag.
type ValidationError struct {
	field   string
	tag     string
	value   any
	message string
}

// Field returns the struct field name that failed validation.
func (e *ValidationError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string { return e.tag }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failing field of one struct.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the failing fields in validator order.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve.errors))
	for i := range ve.errors {
		parts[i] = ve.errors[i].message
	}
	return strings.Join(parts, "; ")
}

// APIError carries models.APIError's fields without importing models.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError renders the failures as a VALIDATION_ERROR. A single failure
// reports its field, tag and value; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	const code = "VALIDATION_ERROR"
	switch len(ve.errors) {
	case 0:
		return &APIError{Code: code, Message: "Validation failed"}
	case 1:
		e := ve.errors[0]
		return &APIError{Code: code, Message: e.message, Details: map[string]any{
			"field": e.field,
			"tag":   e.tag,
			"value": e.value,
		}}
	}

	fields := make([]map[string]any, len(ve.errors))
	parts := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		fields[i] = map[string]any{"field": e.field, "tag": e.tag, "message": e.message}
		parts[i] = e.field + ": " + e.message
	}
	return &APIError{Code: code, Message: strings.Join(parts, "; "), Details: map[string]any{"fields": fields}}
}

// GetValidator returns the shared validator with the custom tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		custom := map[string]validator.Func{
			"docid":    validateDocID,
			"interest": validateInterest,
		}
		for tag, fn := range custom {
			if err := validate.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("validation: register %s: %v", tag, err))
			}
		}
	})

	return validate
}

var docIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func validateDocID(fl validator.FieldLevel) bool {
	return docIDPattern.MatchString(fl.Field().String())
}

const maxInterestLength = 64

func validateInterest(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || len(s) > maxInterestLength || strings.Contains(s, ",") {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// ValidateStruct validates s with the shared validator and returns nil or
// the failing fields.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &RequestValidationError{errors: []ValidationError{{field: "unknown", tag: "unknown", message: err.Error()}}}
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			value:   fe.Value(),
			message: message(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// tagMessages holds one template per tag in use. %[1]s is the field and %[2]s
// the tag parameter.
var tagMessages = map[string]string{
	"required":      "%[1]s is required",
	"required_with": "%[1]s is required when %[2]s is set",
	"email":         "%[1]s must be a valid email address",
	"latitude":      "%[1]s must be a valid latitude (-90 to 90)",
	"longitude":     "%[1]s must be a valid longitude (-180 to 180)",
	"docid":         "%[1]s must be 1-64 letters, digits, underscores or hyphens",
	"interest":      "%[1]s must be 1-64 printable characters without commas",
	"oneof":         "%[1]s must be one of: %[2]s",
	"gte":           "%[1]s must be greater than or equal to %[2]s",
	"lte":           "%[1]s must be less than or equal to %[2]s",
	"min":           "%[1]s must be at least %[2]s",
	"max":           "%[1]s must be at most %[2]s",
}

func message(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	if (fe.Tag() == "min" || fe.Tag() == "max") && fe.Kind() == reflect.String {
		tmpl += " characters"
	}
	return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
}
