package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(CodeValidation, "schedule.import", "No data provided", nil)
	if got := err.Error(); got != "schedule.import: No data provided (validation)" {
		t.Fatalf("Error(): got=%q", got)
	}
	if got := NewError(CodeInternal, "", "", nil).Error(); got != "internal" {
		t.Fatalf("bare code: got=%q", got)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := NotFound("lesson.get", "Lesson not found")
	wrapped := fmt.Errorf("handler: %w", base)
	if !IsCode(wrapped, CodeNotFound) {
		t.Fatalf("expected not_found through fmt wrap")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain error should have no code")
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(Validation("op", "Invalid Signature"), "x"); got != "Invalid Signature" {
		t.Fatalf("MessageOf coded: got=%q", got)
	}
	if got := MessageOf(errors.New("db down"), "Unable to create the schedule."); got != "Unable to create the schedule." {
		t.Fatalf("MessageOf fallback: got=%q", got)
	}
}
