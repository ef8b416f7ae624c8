package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b {
		t.Errorf("Expected distinct run IDs, got %s twice", a)
	}
	if a.String() == "" {
		t.Error("Expected non-empty run ID")
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"run-123", RunID("run-123"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestHashShort(t *testing.T) {
	h := NewHash([]byte("113-695A-3H-2, 45-47"))
	if len(h.String()) != 64 {
		t.Fatalf("Expected 64 hex chars, got %d", len(h.String()))
	}
	if h.Short() != h.String()[:12] {
		t.Errorf("Short() = %s, want prefix of %s", h.Short(), h)
	}
	if Hash("abc").Short() != "abc" {
		t.Error("Short() should return short hashes unchanged")
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsNotFoundError(NewColumnNotFoundError("Depth [mbsf]")) {
		t.Error("column-not-found should be a not-found error")
	}
	if !IsNotFoundError(NewSectionNotFoundError("A", "3H", "2")) {
		t.Error("section-not-found should be a not-found error")
	}
	if !IsValidationError(NewMalformedLabelError("bogus", "no interval")) {
		t.Error("malformed label should be a validation error")
	}
	if !errors.Is(NewLengthMismatchError("x", 2, 3), ErrLengthMismatch) {
		t.Error("length mismatch should wrap ErrLengthMismatch")
	}
	if IsNotFoundError(ErrInsufficientData) {
		t.Error("insufficient data is not a not-found error")
	}
}
