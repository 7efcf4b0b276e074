package normalizer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownField is returned when a layout has no column for a canonical field.
var ErrUnknownField = errors.New("field has no column in layout")

// Layout selects one of the two legacy sheet layouts.
type Layout uint8

// Supported layouts.
const (
	LayoutUnknown Layout = iota
	LayoutA
	LayoutB
)

// ParseLayout converts a layout tag ("A" or "B") into a Layout.
func ParseLayout(tag string) (Layout, error) {
	switch strings.TrimSpace(tag) {
	case "A":
		return LayoutA, nil
	case "B":
		return LayoutB, nil
	default:
		return LayoutUnknown, fmt.Errorf("%w: %q", ErrInvalidLayoutTag, tag)
	}
}

// Valid reports whether l is one of the supported layouts.
func (l Layout) Valid() bool {
	return l == LayoutA || l == LayoutB
}

func (l Layout) String() string {
	switch l {
	case LayoutA:
		return "A"
	case LayoutB:
		return "B"
	default:
		return "unknown"
	}
}

// Field names a source concept the normalizer reads from a raw record.
type Field int

// Source fields. Not every field exists in every layout.
const (
	FieldStatus Field = iota
	FieldMemberDOB
	FieldSpouseDOB
	FieldMemberGender
	FieldSpouseGender
	FieldProvince
	FieldPostalCode
	FieldRetirementDate
	FieldDeathDate
	FieldPension
	FieldGuaranteeYears
	FieldGuaranteeEnd
	FieldUnlocated
	FieldMemberSurname
	FieldMemberGivenName
	FieldSpouseSurname
	FieldSpouseGivenName
	FieldMaritalStatus
	FieldBeneficiarySurname
	FieldBeneficiaryGivenName
	FieldMemberName
	FieldSpouseName
	FieldBeneficiaryName
	fieldCount
)

var fieldNames = [fieldCount]string{
	FieldStatus:               "status",
	FieldMemberDOB:            "member_dob",
	FieldSpouseDOB:            "spouse_dob",
	FieldMemberGender:         "member_gender",
	FieldSpouseGender:         "spouse_gender",
	FieldProvince:             "province",
	FieldPostalCode:           "postal_code",
	FieldRetirementDate:       "retirement_date",
	FieldDeathDate:            "death_date",
	FieldPension:              "pension",
	FieldGuaranteeYears:       "guarantee_years",
	FieldGuaranteeEnd:         "guarantee_end",
	FieldUnlocated:            "unlocated",
	FieldMemberSurname:        "member_surname",
	FieldMemberGivenName:      "member_given_name",
	FieldSpouseSurname:        "spouse_surname",
	FieldSpouseGivenName:      "spouse_given_name",
	FieldMaritalStatus:        "marital_status",
	FieldBeneficiarySurname:   "beneficiary_surname",
	FieldBeneficiaryGivenName: "beneficiary_given_name",
	FieldMemberName:           "member_name",
	FieldSpouseName:           "spouse_name",
	FieldBeneficiaryName:      "beneficiary_name",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return fmt.Sprintf("field(%d)", int(f))
	}

	return fieldNames[f]
}

// Column locates a field in a raw record.
type Column struct {
	Index int
	Name  string
}

// schema is the fixed column vocabulary of one layout plus the traits that
// change how its cells are interpreted.
type schema struct {
	columns   []string
	positions map[Field]int

	// numericGender: member gender is coded 1=M, 2=F.
	numericGender bool
	// splitNames: names arrive as given name and surname columns.
	splitNames bool
	// hasProvince: the layout carries a province column.
	hasProvince bool
}

func newSchema(columns []string, fields map[Field]string) *schema {
	s := &schema{
		columns:   columns,
		positions: make(map[Field]int, len(fields)),
	}

	for field, name := range fields {
		pos := slices.Index(columns, name)
		if pos < 0 {
			panic(fmt.Sprintf("normalizer: column %q for %s not in layout", name, field))
		}

		s.positions[field] = pos
	}

	return s
}

var schemaA = func() *schema {
	s := newSchema([]string{
		"Status",
		"Payee Date of Birth",
		"Spouse Date of Birth",
		"Payee Gender",
		"Spouse Gender",
		"Province of Residence",
		"Postal Code",
		"Original Member's Date of Retirement",
		"Original Member's Date of Death",
		"Lifetime Monthly Pension",
		"Original Guarantee (years)",
		"Date Guarantee End",
		"Unlocated Member (Y/N)",
		"Surname",
		"Given Name",
		"Spouse Surname",
		"Spouse Given Name",
		"Marital Status",
		"Beneficiary Surname",
		"Beneficiary Given Name",
	}, map[Field]string{
		FieldStatus:               "Status",
		FieldMemberDOB:            "Payee Date of Birth",
		FieldSpouseDOB:            "Spouse Date of Birth",
		FieldMemberGender:         "Payee Gender",
		FieldSpouseGender:         "Spouse Gender",
		FieldProvince:             "Province of Residence",
		FieldPostalCode:           "Postal Code",
		FieldRetirementDate:       "Original Member's Date of Retirement",
		FieldDeathDate:            "Original Member's Date of Death",
		FieldPension:              "Lifetime Monthly Pension",
		FieldGuaranteeYears:       "Original Guarantee (years)",
		FieldGuaranteeEnd:         "Date Guarantee End",
		FieldUnlocated:            "Unlocated Member (Y/N)",
		FieldMemberSurname:        "Surname",
		FieldMemberGivenName:      "Given Name",
		FieldSpouseSurname:        "Spouse Surname",
		FieldSpouseGivenName:      "Spouse Given Name",
		FieldMaritalStatus:        "Marital Status",
		FieldBeneficiarySurname:   "Beneficiary Surname",
		FieldBeneficiaryGivenName: "Beneficiary Given Name",
	})
	s.splitNames = true
	s.hasProvince = true

	return s
}()

var schemaB = func() *schema {
	s := newSchema([]string{
		"Status",
		"Member DOB",
		"Spouse DOB",
		"Gender (M=1, F=2)",
		"Spouse Sex",
		"Postal Code",
		"DOR",
		"Date of Death",
		"Pension",
		"Member Name",
		"Spouse Name",
		"Beneficiary Name",
		"Marital Status",
		"Original Guarantee (years)",
		"Date Guarantee End",
		"Unlocated Member (Y/N)",
	}, map[Field]string{
		FieldStatus:          "Status",
		FieldMemberDOB:       "Member DOB",
		FieldSpouseDOB:       "Spouse DOB",
		FieldMemberGender:    "Gender (M=1, F=2)",
		FieldSpouseGender:    "Spouse Sex",
		FieldPostalCode:      "Postal Code",
		FieldRetirementDate:  "DOR",
		FieldDeathDate:       "Date of Death",
		FieldPension:         "Pension",
		FieldMemberName:      "Member Name",
		FieldSpouseName:      "Spouse Name",
		FieldBeneficiaryName: "Beneficiary Name",
		FieldMaritalStatus:   "Marital Status",
		FieldGuaranteeYears:  "Original Guarantee (years)",
		FieldGuaranteeEnd:    "Date Guarantee End",
		FieldUnlocated:       "Unlocated Member (Y/N)",
	})
	s.numericGender = true

	return s
}()

func schemaFor(layout Layout) (*schema, error) {
	switch layout {
	case LayoutA:
		return schemaA, nil
	case LayoutB:
		return schemaB, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidLayoutTag, layout)
	}
}

// Resolve returns the raw column holding field in the given layout.
func Resolve(layout Layout, field Field) (Column, error) {
	s, err := schemaFor(layout)
	if err != nil {
		return Column{}, err
	}

	pos, ok := s.positions[field]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s in layout %s", ErrUnknownField, field, layout)
	}

	return Column{Index: pos, Name: s.columns[pos]}, nil
}

// Columns returns the expected header of a layout in column order.
func Columns(layout Layout) ([]string, error) {
	s, err := schemaFor(layout)
	if err != nil {
		return nil, err
	}

	return slices.Clone(s.columns), nil
}
