package validator

import (
	"errors"
	"strings"
	"testing"

	"pensionqa/internal/normalizer"
)

func layoutHeader(t *testing.T, layout normalizer.Layout) []string {
	t.Helper()

	cols, err := normalizer.Columns(layout)
	if err != nil {
		t.Fatalf("Columns(%s) failed: %v", layout, err)
	}

	return cols
}

func TestHeaderValidator_Exact(t *testing.T) {
	v := NewHeaderValidator(true)

	for _, layout := range []normalizer.Layout{normalizer.LayoutA, normalizer.LayoutB} {
		result, err := v.Validate(layout, layoutHeader(t, layout))
		if err != nil {
			t.Fatalf("Validate(%s) returned error: %v", layout, err)
		}

		if !result.IsValid {
			t.Errorf("Validate(%s) reported issues: %v", layout, result.Warnings())
		}
	}
}

func TestHeaderValidator_CaseAndSpacing(t *testing.T) {
	header := layoutHeader(t, normalizer.LayoutB)
	header[6] = "  dor "

	result, err := NewHeaderValidator(true).Validate(normalizer.LayoutB, header)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if !result.IsValid {
		t.Errorf("expected valid header, got %v", result.Warnings())
	}
}

func TestHeaderValidator_Issues(t *testing.T) {
	header := layoutHeader(t, normalizer.LayoutB)
	// Swap two columns, drop the last and add an extra one.
	header[1], header[2] = header[2], header[1]
	header = append(header[:len(header)-1], "Notes")

	result, err := NewHeaderValidator(false).Validate(normalizer.LayoutB, header)
	if err != nil {
		t.Fatalf("non-strict Validate returned error: %v", err)
	}

	if result.IsValid {
		t.Fatal("expected issues")
	}

	if len(result.Missing) != 1 || result.Missing[0].Name != "Unlocated Member (Y/N)" {
		t.Errorf("Missing = %+v", result.Missing)
	}

	if len(result.Misplaced) != 2 {
		t.Errorf("Misplaced = %+v", result.Misplaced)
	}

	if len(result.Unexpected) != 1 || result.Unexpected[0].Name != "Notes" || result.Unexpected[0].Actual != 15 {
		t.Errorf("Unexpected = %+v", result.Unexpected)
	}

	if got := len(result.Warnings()); got != 4 {
		t.Errorf("Warnings() returned %d messages, want 4", got)
	}
}

func TestHeaderValidator_Strict(t *testing.T) {
	header := layoutHeader(t, normalizer.LayoutB)

	result, err := NewHeaderValidator(true).Validate(normalizer.LayoutA, header)
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("error = %v, want ErrHeaderMismatch", err)
	}

	if result == nil || result.IsValid {
		t.Error("expected an invalid result alongside the error")
	}

	if !strings.Contains(err.Error(), "Payee Date of Birth") {
		t.Errorf("error should name missing columns: %v", err)
	}
}

func TestHeaderValidator_InvalidLayout(t *testing.T) {
	_, err := NewHeaderValidator(false).Validate(normalizer.LayoutUnknown, nil)
	if !errors.Is(err, normalizer.ErrInvalidLayoutTag) {
		t.Errorf("error = %v, want ErrInvalidLayoutTag", err)
	}
}
