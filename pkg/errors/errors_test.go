package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected EOF")
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidConfig, "line_height must be positive"), "INVALID_CONFIG: line_height must be positive"},
		{"wrapped", Wrap(ErrCodeInvalidDocument, cause, "decode %s", "tree.json"), "INVALID_DOCUMENT: decode tree.json: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
	if !errors.Is(Wrap(ErrCodeInvalidDocument, cause, "x"), cause) {
		t.Error("cause not reachable through Unwrap")
	}
}

func TestIsAndGetCode(t *testing.T) {
	stale := Wrap(ErrCodeStaleHandle, errors.New("stale block handle"), "block 3.1")
	tests := []struct {
		name  string
		err   error
		check Code
		is    bool
		code  Code
	}{
		{"direct", stale, ErrCodeStaleHandle, true, ErrCodeStaleHandle},
		{"other code", stale, ErrCodeNotFound, false, ErrCodeStaleHandle},
		{"through fmt wrap", fmt.Errorf("fold: %w", stale), ErrCodeStaleHandle, true, ErrCodeStaleHandle},
		{"outermost wins", Wrap(ErrCodeConflict, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInvalidInput, false, ErrCodeConflict},
		{"plain error", errors.New("boom"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.check); got != tt.is {
				t.Errorf("Is(%s) = %v, want %v", tt.check, got, tt.is)
			}
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeFileNotFound, "file not found: main.c"), "file not found: main.c"},
		{fmt.Errorf("load: %w", New(ErrCodeInvalidDocument, "bad tree")), "bad tree"},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage = %q", got)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{ErrCodeInvalidHandle, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeStaleHandle, http.StatusNotFound},
		{ErrCodeFileNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeUnsupported, http.StatusNotImplemented},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
	if got := Status(fmt.Errorf("x: %w", New(ErrCodeConflict, "no caret"))); got != http.StatusConflict {
		t.Errorf("Status = %d", got)
	}
}
