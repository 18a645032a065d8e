package providers

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"insufficient_quota": ErrorQuota,
		"429 rate":           ErrorRate,
		"context too long":   ErrorContext,
		"timeout":            ErrorTransient,
		"bad request":        ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
}

func TestClassifyMissingCredential(t *testing.T) {
	err := fmt.Errorf("openai key for alias %q: %w", "a", ErrMissingCredential)
	if got := ClassifyError(err); got != ErrorCredential {
		t.Fatalf("expected credential classification, got %s", got)
	}
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatal("wrapped sentinel lost")
	}
}
