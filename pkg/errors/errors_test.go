package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestField(t *testing.T) {
	err := Field(ErrCodeInvalidParams, "counts", "sum %d != total_tiles %d", 5, 7)

	if err.Field != "counts" {
		t.Errorf("Field = %q, want %q", err.Field, "counts")
	}

	expected := "INVALID_PARAMS: counts: sum 5 != total_tiles 7"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}

	if got := UserMessage(err); got != "counts: sum 5 != total_tiles 7" {
		t.Errorf("UserMessage() = %q", got)
	}

	if got := GetField(Wrap(ErrCodeInternal, err, "outer")); got != "" {
		t.Errorf("GetField() on outer wrapper = %q, want empty", got)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to encode")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidParams, "test"),
			code:     ErrCodeInvalidParams,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidParams, "test"),
			code:     ErrCodeInvariant,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeInvariant, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInvariant,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodePatternNotFound, "test"), ErrCodePatternNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid params", New(ErrCodeInvalidParams, "x"), http.StatusUnprocessableEntity},
		{"invalid image", New(ErrCodeInvalidImage, "x"), http.StatusUnprocessableEntity},
		{"too large", New(ErrCodeTooLarge, "x"), http.StatusUnprocessableEntity},
		{"pattern not found", New(ErrCodePatternNotFound, "x"), http.StatusNotFound},
		{"not found", New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{"invariant", New(ErrCodeInvariant, "x"), http.StatusInternalServerError},
		{"unsupported", New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
