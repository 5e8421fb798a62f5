package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/droid-games/scoreboard/internal/errors"
)

func TestErrorMessage(t *testing.T) {
	err := errors.NotFound("team not found")
	if err.Error() != "team not found" {
		t.Errorf("expected %q, got %q", "team not found", err.Error())
	}
}

func TestErrorMessageWithWrapped(t *testing.T) {
	inner := stderrors.New("disk full")
	err := errors.Wrap(inner, errors.ErrStorage, "saving team")
	want := "saving team: disk full"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	inner := stderrors.New("underlying")
	err := errors.Storage(inner)
	if !stderrors.Is(err, inner) {
		t.Error("expected errors.Is to find the underlying error")
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.Error
		kind errors.Kind
	}{
		{"not found", errors.NotFound("x"), errors.ErrNotFound},
		{"not foundf", errors.NotFoundf("team %s", "t1"), errors.ErrNotFound},
		{"validation", errors.Validation("x"), errors.ErrValidation},
		{"validationf", errors.Validationf("bad %d", 1), errors.ErrValidation},
		{"invalid state", errors.InvalidState("x"), errors.ErrInvalidState},
		{"invalid statef", errors.InvalidStatef("round %d", 2), errors.ErrInvalidState},
		{"invalid input", errors.InvalidInput("x"), errors.ErrInvalidInput},
		{"invalid inputf", errors.InvalidInputf("bad %s", "y"), errors.ErrInvalidInput},
		{"internal", errors.Internal(stderrors.New("x")), errors.ErrInternal},
		{"storage", errors.Storage(stderrors.New("x")), errors.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("expected kind %d, got %d", tt.kind, tt.err.Kind)
			}
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("submit score: %w", errors.InvalidState("score not submitted"))

	var appErr *errors.Error
	if !stderrors.As(err, &appErr) {
		t.Fatal("expected errors.As to unwrap *errors.Error")
	}
	if appErr.Kind != errors.ErrInvalidState {
		t.Errorf("expected ErrInvalidState, got %d", appErr.Kind)
	}
}

func TestNotFoundfFormats(t *testing.T) {
	err := errors.NotFoundf("team %s not found", "t-42")
	if err.Message != "team t-42 not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
}
