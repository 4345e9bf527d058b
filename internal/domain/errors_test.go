package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"tracker/internal/domain"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("register: %w", &domain.ValidationError{Field: "email", Reason: "must be a valid email address"})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError in chain, got %v", err)
	}
	if verr.Field != "email" {
		t.Errorf("expected field email, got %q", verr.Field)
	}
	if got := verr.Error(); got != "email must be a valid email address" {
		t.Errorf("unexpected message %q", got)
	}
}
