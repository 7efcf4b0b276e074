package normalizer

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pensionqa/internal/models"
)

func date(y int, m time.Month, d int) models.Value {
	return models.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// rowA builds a complete layout A row; callers override single cells.
func rowA() models.RawRecord {
	return models.RawRecord{
		models.Text("Retired"),      // Status
		date(1950, time.March, 4),   // Payee Date of Birth
		date(1952, time.July, 9),    // Spouse Date of Birth
		models.Text("F"),            // Payee Gender
		models.Text("M"),            // Spouse Gender
		models.Text("ON"),           // Province of Residence
		models.Text("K1A 0B1"),      // Postal Code
		date(2012, time.January, 1), // Original Member's Date of Retirement
		models.Empty(),              // Original Member's Date of Death
		models.Number(1500),         // Lifetime Monthly Pension
		models.Number(10),           // Original Guarantee (years)
		date(2022, time.January, 1), // Date Guarantee End
		models.Text("N"),            // Unlocated Member (Y/N)
		models.Text("Doe"),          // Surname
		models.Text("Jane"),         // Given Name
		models.Text("Doe"),          // Spouse Surname
		models.Text("John"),         // Spouse Given Name
		models.Text("Yes"),          // Marital Status
		models.Empty(),              // Beneficiary Surname
		models.Empty(),              // Beneficiary Given Name
	}
}

// rowB builds a complete layout B row.
func rowB() models.RawRecord {
	return models.RawRecord{
		models.Text("Beneficiary"),    // Status
		date(1948, time.May, 2),       // Member DOB
		models.Empty(),                // Spouse DOB
		models.Number(1),              // Gender (M=1, F=2)
		models.Empty(),                // Spouse Sex
		models.Text("A1A1A1"),         // Postal Code
		date(2008, time.June, 30),     // DOR
		date(2020, time.February, 14), // Date of Death
		models.Number(0),              // Pension
		models.Text("Sam Roe"),        // Member Name
		models.Empty(),                // Spouse Name
		models.Empty(),                // Beneficiary Name
		models.Text("No"),             // Marital Status
		models.Number(5),              // Original Guarantee (years)
		models.Empty(),                // Date Guarantee End
		models.Text("Y"),              // Unlocated Member (Y/N)
	}
}

func TestNormalize_LayoutA(t *testing.T) {
	got, err := Normalize(rowA(), LayoutA, 1)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	want := models.CanonicalRecord{
		ID:                   "0000000001",
		Status:               models.Text("Retired"),
		MemberDOB:            date(1950, time.March, 4),
		MissingDOB:           "No",
		SpouseDOB:            date(1952, time.July, 9),
		MissingSpouseDOB:     "No",
		PayeeGender:          models.Text("F"),
		MemberGenderAnomaly:  "Good",
		SpouseGender:         models.Text("M"),
		SpouseGenderAnomaly:  "Good",
		GenderMismatch:       "No",
		Province:             models.Text("ON"),
		PostalCode:           models.Text("K1A 0B1"),
		PostalCodeCheck:      "Correct",
		RetirementDate:       date(2012, time.January, 1),
		DeathDate:            models.Empty(),
		Pension:              models.Number(1500),
		PensionCheck:         "Correct",
		GuaranteeYears:       models.Number(10),
		GuaranteeEnd:         date(2022, time.January, 1),
		GuaranteeCheck:       "Yes",
		Unlocated:            models.Text("N"),
		UnlocatedCheck:       "Correct",
		MemberName:           "Jane Doe",
		MemberNameCheck:      "Yes",
		SpouseName:           "John Doe",
		SpouseNameCheck:      "Yes",
		MaritalStatus:        models.Text("Yes"),
		BeneficiaryName:      "",
		BeneficiaryNameCheck: "Yes",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_LayoutB(t *testing.T) {
	got, err := Normalize(rowB(), LayoutB, 42)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	want := models.CanonicalRecord{
		ID:                   "0000000042",
		Status:               models.Text("Beneficiary"),
		MemberDOB:            date(1948, time.May, 2),
		MissingDOB:           "No",
		SpouseDOB:            models.Empty(),
		MissingSpouseDOB:     "Yes",
		PayeeGender:          models.Text("M"),
		MemberGenderAnomaly:  "Good",
		SpouseGender:         models.Empty(),
		SpouseGenderAnomaly:  "Good",
		GenderMismatch:       "No",
		Province:             models.Text("Unspecified"),
		PostalCode:           models.Text("A1A1A1"),
		PostalCodeCheck:      "Incorrect code",
		RetirementDate:       date(2008, time.June, 30),
		DeathDate:            date(2020, time.February, 14),
		Pension:              models.Number(0),
		PensionCheck:         "Incorrect amount",
		GuaranteeYears:       models.Number(5),
		GuaranteeEnd:         models.Empty(),
		GuaranteeCheck:       "No",
		Unlocated:            models.Text("Y"),
		UnlocatedCheck:       "Investigate",
		MemberName:           "Sam Roe",
		MemberNameCheck:      "Yes",
		SpouseName:           "",
		SpouseNameCheck:      "Yes",
		MaritalStatus:        models.Text("No"),
		BeneficiaryName:      "",
		BeneficiaryNameCheck: "No",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_LayoutBGenderCodes(t *testing.T) {
	tests := []struct {
		name        string
		code        models.Value
		wantGender  string
		wantAnomaly string
	}{
		{"code 1", models.Number(1), "M", FlagGood},
		{"code 2", models.Number(2), "F", FlagGood},
		{"code 3", models.Number(3), "X", FlagIncorrectGenderCode},
		{"absent", models.Empty(), "X", FlagIncorrectGenderCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := rowB()
			row[3] = tt.code

			got, err := Normalize(row, LayoutB, 1)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}

			if !got.PayeeGender.Equal(models.Text(tt.wantGender)) {
				t.Errorf("PayeeGender = %q, want %q", got.PayeeGender.String(), tt.wantGender)
			}

			if got.MemberGenderAnomaly != tt.wantAnomaly {
				t.Errorf("MemberGenderAnomaly = %q, want %q", got.MemberGenderAnomaly, tt.wantAnomaly)
			}
		})
	}
}

// Spouse gender is copied as-is in layout B, never decoded.
func TestNormalize_LayoutBSpouseGenderNotDecoded(t *testing.T) {
	row := rowB()
	row[4] = models.Number(2)
	row[12] = models.Text("Yes")

	got, err := Normalize(row, LayoutB, 1)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if !got.SpouseGender.Equal(models.Number(2)) {
		t.Errorf("SpouseGender = %v, want raw 2", got.SpouseGender.String())
	}

	if got.SpouseGenderAnomaly != FlagIncorrectGenderCode {
		t.Errorf("SpouseGenderAnomaly = %q, want %q", got.SpouseGenderAnomaly, FlagIncorrectGenderCode)
	}
}

func TestNormalize_LayoutANames(t *testing.T) {
	tests := []struct {
		name           string
		given, surname models.Value
		wantName       string
		wantCheck      string
	}{
		{"given only", models.Text("Jane"), models.Empty(), "Jane", "Yes"},
		{"neither", models.Empty(), models.Empty(), "", "No"},
		{"surname only", models.Empty(), models.Text("Doe"), "Doe", "Yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := rowA()
			row[14] = tt.given
			row[13] = tt.surname

			got, err := Normalize(row, LayoutA, 1)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}

			if got.MemberName != tt.wantName || got.MemberNameCheck != tt.wantCheck {
				t.Errorf("MemberName = %q (%s), want %q (%s)",
					got.MemberName, got.MemberNameCheck, tt.wantName, tt.wantCheck)
			}
		})
	}
}

func TestNormalize_MissingStatusAndSpouse(t *testing.T) {
	row := rowA()
	row[0] = models.Empty()  // Status
	row[2] = models.Empty()  // Spouse Date of Birth
	row[4] = models.Empty()  // Spouse Gender
	row[15] = models.Empty() // Spouse Surname
	row[16] = models.Empty() // Spouse Given Name

	got, err := Normalize(row, LayoutA, 7)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if !got.Status.Equal(models.Text("Unspecified")) {
		t.Errorf("Status = %q, want Unspecified", got.Status.String())
	}

	if got.MissingSpouseDOB != "Yes" {
		t.Errorf("MissingSpouseDOB = %q, want Yes", got.MissingSpouseDOB)
	}

	if got.SpouseGenderAnomaly != FlagMissingGender {
		t.Errorf("SpouseGenderAnomaly = %q, want %q", got.SpouseGenderAnomaly, FlagMissingGender)
	}

	if got.SpouseNameCheck != "No" {
		t.Errorf("SpouseNameCheck = %q, want No", got.SpouseNameCheck)
	}
}

func TestNormalize_ShortRow(t *testing.T) {
	got, err := Normalize(models.RawRecord{models.Text("Active")}, LayoutA, 1)
	if err != nil {
		t.Fatalf("Normalize returned error for short row: %v", err)
	}

	if got.MissingDOB != "Yes" || got.PensionCheck != FlagIncorrectAmount || got.MemberNameCheck != "No" {
		t.Errorf("unexpected flags for short row: %+v", got)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	row := rowB()
	before := append(models.RawRecord(nil), row...)

	if _, err := Normalize(row, LayoutB, 1); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if diff := cmp.Diff(before, row); diff != "" {
		t.Errorf("raw record mutated (-before +after):\n%s", diff)
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		seq     int64
		wantErr error
	}{
		{"row limit", LayoutA, 10_000_000_000, ErrRowLimitExceeded},
		{"zero sequence", LayoutA, 0, ErrInvalidSequence},
		{"bad layout", Layout(9), 1, ErrInvalidLayoutTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(rowA(), tt.layout, tt.seq)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Normalize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatID(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "0000000001"},
		{42, "0000000042"},
		{9_999_999_999, "9999999999"},
	}

	for _, tt := range tests {
		got, err := FormatID(tt.seq)
		if err != nil || got != tt.want {
			t.Errorf("FormatID(%d) = %q, %v; want %q", tt.seq, got, err, tt.want)
		}
	}
}

func TestNewNormalizerWithPattern(t *testing.T) {
	n, err := NewNormalizerWithPattern(`^\d{5}$`)
	if err != nil {
		t.Fatalf("NewNormalizerWithPattern error: %v", err)
	}

	row := rowA()
	row[6] = models.Text("90210")

	got, err := n.Normalize(row, LayoutA, 1)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if got.PostalCodeCheck != FlagCorrect {
		t.Errorf("PostalCodeCheck = %q, want Correct", got.PostalCodeCheck)
	}

	if _, err := NewNormalizerWithPattern("("); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
