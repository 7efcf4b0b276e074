// Package validator checks an input sheet's header against the expected
// column vocabulary of its layout.
package validator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"pensionqa/internal/normalizer"
)

// ErrHeaderMismatch is returned in strict mode when the header differs from the layout.
var ErrHeaderMismatch = errors.New("input header does not match layout")

// ColumnIssue describes one header column that differs from the layout.
type ColumnIssue struct {
	Name     string
	Expected int // zero-based position in the layout, -1 if not part of it
	Actual   int // zero-based position in the input, -1 if absent
}

// ValidationResult contains the header comparison.
type ValidationResult struct {
	Layout     normalizer.Layout
	Missing    []ColumnIssue
	Unexpected []ColumnIssue
	Misplaced  []ColumnIssue
	IsValid    bool
}

// Warnings renders one message per issue.
func (r *ValidationResult) Warnings() []string {
	var out []string

	for _, c := range r.Missing {
		out = append(out, fmt.Sprintf("missing column %q (expected at position %d)", c.Name, c.Expected+1))
	}

	for _, c := range r.Misplaced {
		out = append(out, fmt.Sprintf("column %q at position %d, expected %d", c.Name, c.Actual+1, c.Expected+1))
	}

	for _, c := range r.Unexpected {
		out = append(out, fmt.Sprintf("unexpected column %q at position %d", c.Name, c.Actual+1))
	}

	return out
}

// HeaderValidator compares input headers with a layout's columns.
type HeaderValidator struct {
	strict bool
}

// NewHeaderValidator creates a validator. In strict mode Validate returns
// ErrHeaderMismatch for any difference.
func NewHeaderValidator(strict bool) *HeaderValidator {
	return &HeaderValidator{strict: strict}
}

// Validate compares header with the layout. Column names are compared after
// trimming spaces and ignoring case.
func (v *HeaderValidator) Validate(layout normalizer.Layout, header []string) (*ValidationResult, error) {
	expected, err := normalizer.Columns(layout)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{Layout: layout}

	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	actual := make([]string, len(header))
	for i, h := range header {
		actual[i] = norm(h)
	}

	for i, name := range expected {
		pos := slices.Index(actual, norm(name))

		switch {
		case pos < 0:
			result.Missing = append(result.Missing, ColumnIssue{Name: name, Expected: i, Actual: -1})
		case pos != i:
			result.Misplaced = append(result.Misplaced, ColumnIssue{Name: name, Expected: i, Actual: pos})
		}
	}

	for i, h := range header {
		if norm(h) == "" {
			continue
		}

		if !slices.ContainsFunc(expected, func(e string) bool { return norm(e) == actual[i] }) {
			result.Unexpected = append(result.Unexpected, ColumnIssue{Name: h, Expected: -1, Actual: i})
		}
	}

	result.IsValid = len(result.Missing) == 0 && len(result.Misplaced) == 0 && len(result.Unexpected) == 0

	if !result.IsValid && v.strict {
		return result, fmt.Errorf("%w %s: %s", ErrHeaderMismatch, layout, strings.Join(result.Warnings(), "; "))
	}

	return result, nil
}
