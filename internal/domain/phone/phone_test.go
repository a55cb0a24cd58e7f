package phone

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/docsense/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"+1 555 123 4567", "15551234567"},
		{"15551234567", "15551234567"},
		{"1-555-123-4567", "15551234567"},
		{"(91) 98765 43210", "919876543210"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw)
		if err != nil {
			t.Errorf("Normalize(%q) error = %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	a, err := Normalize("+1 555 123 4567")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	b, err := Normalize("15551234567")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if a != b {
		t.Errorf("equivalent numbers normalized to %q and %q", a, b)
	}
}

func TestNormalizeInvalid(t *testing.T) {
	for _, raw := range []string{"", "  ", "no digits here", "+" + strings.Repeat("9", 16)} {
		_, err := Normalize(raw)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Normalize(%q) error = %v, want ErrInvalidInput", raw, err)
		}
	}
}
