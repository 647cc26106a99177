package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"

	"tasksweep/internal/service"
)

func TestClassifyNil(t *testing.T) {
	if err := classify(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestClassifyAPIErrors(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{name: "unauthorized", code: http.StatusUnauthorized, want: service.ErrAuth},
		{name: "forbidden", code: http.StatusForbidden, want: service.ErrAuth},
		{name: "not found", code: http.StatusNotFound, want: service.ErrListNotFound},
		{name: "server error", code: http.StatusInternalServerError, want: service.ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(&googleapi.Error{Code: tt.code})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClassifyWrappedAPIError(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", &googleapi.Error{Code: http.StatusUnauthorized})
	if err := classify(wrapped); !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected ErrAuth, got %v", err)
	}
}

func TestClassifyTimeout(t *testing.T) {
	err := classify(fmt.Errorf("call: %w", context.DeadlineExceeded))
	if !errors.Is(err, service.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestClassifyUntypedStatusText(t *testing.T) {
	if err := classify(errors.New("googleapi: got HTTP response code 401")); !errors.Is(err, service.ErrAuth) {
		t.Errorf("expected ErrAuth from text fallback, got %v", err)
	}
	if err := classify(errors.New("connection refused")); !errors.Is(err, service.ErrNetwork) {
		t.Errorf("expected ErrNetwork fallback, got %v", err)
	}
}
