package normalizer

import (
	"errors"
	"fmt"
)

// Run errors. Both abort the whole run.
var (
	ErrInvalidLayoutTag = errors.New("invalid layout tag: expected A or B")
	ErrRowLimitExceeded = errors.New("too many rows for a 10-digit identifier")
	ErrInvalidSequence  = errors.New("sequence number must be at least 1")
)

// Validator checks run-level preconditions before any row is normalized.
type Validator struct {
	maxRows int64
}

// NewValidator creates a validator enforcing the identifier width.
func NewValidator() *Validator {
	return &Validator{maxRows: MaxRows}
}

// Validate checks the layout and the number of rows to process.
func (v *Validator) Validate(layout Layout, rowCount int64) error {
	if !layout.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidLayoutTag, layout)
	}

	if rowCount > v.maxRows {
		return fmt.Errorf("%w: %d rows", ErrRowLimitExceeded, rowCount)
	}

	return nil
}
