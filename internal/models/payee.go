// Package models defines the raw and canonical payee record types.
package models

// RawRecord is one input row as read from the source sheet. Cells are
// addressed by zero-based column position.
type RawRecord []Value

// At returns the cell at column i, or an empty value when the row is shorter.
func (r RawRecord) At(i int) Value {
	if i < 0 || i >= len(r) {
		return Empty()
	}

	return r[i]
}

// RawTable is an input sheet: its header row and the data rows in file order.
type RawTable struct {
	Header []string
	Rows   []RawRecord
}

// CanonicalColumns is the output column order.
var CanonicalColumns = []string{
	"ID",
	"Status",
	"Member DOB",
	"Missing DOB?",
	"Spouse Date of Birth",
	"Missing Spouse DOB?",
	"Payee Gender",
	"Member Gender Anomaly",
	"Spouse Gender",
	"Spouse Gender Anomaly",
	"Gender Mismatch",
	"Province of Residence",
	"Postal Code",
	"Postal Code Check",
	"Original Member's Date of Retirement",
	"Original Member's Date of Death",
	"Lifetime Monthly Pension",
	"Pension Amount Check",
	"Original Guarantee (years)",
	"Date Guarantee End",
	"Guarantee Check",
	"Unlocated Member (Y/N)",
	"Unlocated Check",
	"Member Name",
	"Member Name Check",
	"Spouse Name",
	"Spouse Name Check",
	"Marital Status",
	"Beneficiary Name",
	"Beneficiary Name Check",
}

// CanonicalRecord is one normalized output row. Passthrough fields keep the
// source cell (and its emptiness); derived flags are plain text.
type CanonicalRecord struct {
	ID     string
	Status Value

	MemberDOB        Value
	MissingDOB       string
	SpouseDOB        Value
	MissingSpouseDOB string

	PayeeGender         Value
	MemberGenderAnomaly string
	SpouseGender        Value
	SpouseGenderAnomaly string
	GenderMismatch      string

	Province        Value
	PostalCode      Value
	PostalCodeCheck string

	RetirementDate Value
	DeathDate      Value

	Pension      Value
	PensionCheck string

	GuaranteeYears Value
	GuaranteeEnd   Value
	GuaranteeCheck string

	Unlocated      Value
	UnlocatedCheck string

	MemberName           string
	MemberNameCheck      string
	SpouseName           string
	SpouseNameCheck      string
	MaritalStatus        Value
	BeneficiaryName      string
	BeneficiaryNameCheck string
}

// Values returns the record's cells in CanonicalColumns order.
func (c CanonicalRecord) Values() []Value {
	return []Value{
		Text(c.ID),
		c.Status,
		c.MemberDOB,
		Text(c.MissingDOB),
		c.SpouseDOB,
		Text(c.MissingSpouseDOB),
		c.PayeeGender,
		Text(c.MemberGenderAnomaly),
		c.SpouseGender,
		Text(c.SpouseGenderAnomaly),
		Text(c.GenderMismatch),
		c.Province,
		c.PostalCode,
		Text(c.PostalCodeCheck),
		c.RetirementDate,
		c.DeathDate,
		c.Pension,
		Text(c.PensionCheck),
		c.GuaranteeYears,
		c.GuaranteeEnd,
		Text(c.GuaranteeCheck),
		c.Unlocated,
		Text(c.UnlocatedCheck),
		Text(c.MemberName),
		Text(c.MemberNameCheck),
		Text(c.SpouseName),
		Text(c.SpouseNameCheck),
		c.MaritalStatus,
		Text(c.BeneficiaryName),
		Text(c.BeneficiaryNameCheck),
	}
}
