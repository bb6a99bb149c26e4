package logging

import (
	"context"
	"testing"
)

func TestWithRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")

	if got := GetRequestID(ctx); got != "req-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-123")
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "ada@example.com")

	if got := GetUser(ctx); got != "ada@example.com" {
		t.Errorf("GetUser() = %q, want %q", got, "ada@example.com")
	}
}

func TestContextValues_NotPresent(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID() = %q, want empty string", got)
	}
	if got := GetUser(ctx); got != "" {
		t.Errorf("GetUser() = %q, want empty string", got)
	}
}
