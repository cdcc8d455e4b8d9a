package telemetry

import (
	"testing"
)

func TestNew_WithoutDSN(t *testing.T) {
	r, err := New(SentryOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(LogReporter); !ok {
		t.Errorf("expected LogReporter, got %T", r)
	}
}

func TestNew_WithInvalidDSN(t *testing.T) {
	_, err := New(SentryOptions{DSN: "not a dsn"})
	if err == nil {
		t.Error("expected error for invalid DSN, got nil")
	}
}
