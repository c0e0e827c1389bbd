package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("board", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound formats non-numeric keys",
			err:       NotFound("user", "stevepkuo"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("board_name", "board_name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("user", "stevepkuo"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("only the board owner may do that"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("board", 42),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Conflict does NOT match ErrNotFound",
			err:       Conflict("board", "dummyboard"),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := ValidationFailed("priority", "priority is required")

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() failed to extract *AppError")
	}
	if appErr.Field != "priority" {
		t.Errorf("Field = %q, want %q", appErr.Field, "priority")
	}
	if appErr.Message != "priority is required" {
		t.Errorf("Message = %q, want %q", appErr.Message, "priority is required")
	}
}

func TestErrorsAs_WrappedChain(t *testing.T) {
	// Errors wrapped with %w at the service layer must still unwrap.
	inner := NotFound("panel", 9)
	outer := fmt.Errorf("getting panel: %w", inner)

	if !errors.Is(outer, ErrNotFound) {
		t.Error("wrapped NotFound should match ErrNotFound")
	}

	var appErr *AppError
	if !errors.As(outer, &appErr) {
		t.Fatal("errors.As() failed on wrapped chain")
	}
	if appErr.Message != inner.Message {
		t.Errorf("Message = %q, want %q", appErr.Message, inner.Message)
	}
}
