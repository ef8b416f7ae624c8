package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Table errors
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnKind       = errors.New("column has the wrong kind")
	ErrDuplicateColumn  = errors.New("duplicate column")
	ErrLengthMismatch   = errors.New("column length mismatch")
	ErrInsufficientData = errors.New("insufficient data")

	// Label conversion errors
	ErrMalformedLabel   = errors.New("malformed sample label")
	ErrUnknownHole      = errors.New("no summary table for hole")
	ErrSectionNotFound  = errors.New("section not found in summary table")
	ErrMalformedSummary = errors.New("malformed summary table")

	// Workbook errors
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Error constructors with context
func NewColumnNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func NewColumnKindError(name, want string) error {
	return fmt.Errorf("%w: %q is not %s", ErrColumnKind, name, want)
}

func NewLengthMismatchError(name string, got, want int) error {
	return fmt.Errorf("%w: %q has %d rows, table has %d", ErrLengthMismatch, name, got, want)
}

func NewMalformedLabelError(label, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedLabel, label, reason)
}

func NewSectionNotFoundError(hole, coreID, section string) error {
	return fmt.Errorf("%w: hole %s core %s section %s", ErrSectionNotFound, hole, coreID, section)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrUnknownHole) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrSectionNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrColumnKind) ||
		errors.Is(err, ErrDuplicateColumn) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrMalformedLabel) ||
		errors.Is(err, ErrMalformedSummary) ||
		errors.Is(err, ErrUnsupportedFormat)
}
