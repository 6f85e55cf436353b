// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package validation provides struct validation using go-playground/validator v10.
// It exposes a thread-safe singleton validator instance shared by the config
// loader and the HTTP request handlers.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.Message
}

// RequestValidationError is a collection of validation errors for one struct.
type RequestValidationError struct {
	Errors []ValidationError
}

// Error implements the error interface, returning a combined message.
func (ve *RequestValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.Errors))
	for i := range ve.Errors {
		messages = append(messages, ve.Errors[i].Message)
	}
	return strings.Join(messages, "; ")
}

// getValidator returns the singleton validator instance.
// The validator caches struct metadata, so reuse matters for performance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct using its `validate` tags.
// Returns nil on success or a *RequestValidationError describing every
// failed field.
func ValidateStruct(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("invalid validation target: %w", err)
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	ve := &RequestValidationError{Errors: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Errors = append(ve.Errors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: fieldMessage(fe),
		})
	}
	return ve
}

// fieldMessage builds a readable message for a single field error.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation on %s", fe.Field(), fe.Tag())
	}
}
