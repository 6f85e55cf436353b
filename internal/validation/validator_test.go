// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	Title string `validate:"required,max=16"`
	Count int    `validate:"min=1,max=50"`
	Mode  string `validate:"omitempty,oneof=json console"`
}

func TestValidateStructPasses(t *testing.T) {
	req := sampleRequest{Title: "Inception", Count: 5}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructCollectsAllErrors(t *testing.T) {
	req := sampleRequest{Title: "", Count: 0, Mode: "xml"}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *RequestValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *RequestValidationError, got %T", err)
	}
	if len(ve.Errors) != 3 {
		t.Fatalf("expected 3 field errors, got %d: %v", len(ve.Errors), ve)
	}
	if !strings.Contains(ve.Error(), "Title is required") {
		t.Errorf("expected required message, got %q", ve.Error())
	}
	if !strings.Contains(ve.Error(), "Count must be at least 1") {
		t.Errorf("expected min message, got %q", ve.Error())
	}
}

func TestValidateStructMaxTag(t *testing.T) {
	req := sampleRequest{Title: strings.Repeat("x", 17), Count: 5}

	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("expected validation error for over-length title")
	}
	if !strings.Contains(err.Error(), "Title must be at most 16") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
