package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelWrapping(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{NotFound("session %s", "x"), ErrNotFound},
		{Forbidden("nope"), ErrForbidden},
		{Authentication("bad token"), ErrAuthentication},
		{Conflict("taken"), ErrConflict},
		{Validation("bad input"), ErrValidation},
		{InvalidTransition("cannot start a %s session", "completed"), ErrInvalidTransition},
	}

	for _, tt := range tests {
		if !errors.Is(tt.err, tt.sentinel) {
			t.Errorf("%v should wrap %v", tt.err, tt.sentinel)
		}
		// Wrapping survives another layer.
		wrapped := fmt.Errorf("outer: %w", tt.err)
		if !errors.Is(wrapped, tt.sentinel) {
			t.Errorf("wrapped %v should still match %v", wrapped, tt.sentinel)
		}
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Forbidden("x"), http.StatusForbidden},
		{Authentication("x"), http.StatusUnauthorized},
		{Conflict("x"), http.StatusConflict},
		{InvalidTransition("x"), http.StatusConflict},
		{Validation("x"), http.StatusUnprocessableEntity},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
