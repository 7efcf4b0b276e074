package normalizer

import (
	"fmt"
	"regexp"

	"pensionqa/internal/models"
)

// MaxRows is the largest identifier that fits the 10-digit ID column.
const MaxRows int64 = 9_999_999_999

// Normalizer turns raw payee rows into canonical records.
type Normalizer struct {
	postalCode *regexp.Regexp
}

// NewNormalizer creates a normalizer using the Canadian postal code format.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		postalCode: defaultPostalCode,
	}
}

// NewNormalizerWithPattern creates a normalizer with a custom postal code pattern.
func NewNormalizerWithPattern(pattern string) (*Normalizer, error) {
	if pattern == "" {
		return NewNormalizer(), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid postal code pattern: %w", err)
	}

	return &Normalizer{postalCode: re}, nil
}

// FormatID renders a row sequence number as a 10-digit identifier.
func FormatID(seq int64) (string, error) {
	if seq < 1 {
		return "", fmt.Errorf("%w: %d", ErrInvalidSequence, seq)
	}

	if seq > MaxRows {
		return "", fmt.Errorf("%w: row %d", ErrRowLimitExceeded, seq)
	}

	return fmt.Sprintf("%010d", seq), nil
}

// Normalize maps one raw row to a canonical record using the default normalizer.
func Normalize(raw models.RawRecord, layout Layout, seq int64) (models.CanonicalRecord, error) {
	return NewNormalizer().Normalize(raw, layout, seq)
}

// fieldReader reads fields from a raw record and keeps the first lookup error.
type fieldReader struct {
	rec    models.RawRecord
	layout Layout
	err    error
}

func (r *fieldReader) get(f Field) models.Value {
	col, err := Resolve(r.layout, f)
	if err != nil {
		if r.err == nil {
			r.err = err
		}

		return models.Empty()
	}

	return r.rec.At(col.Index)
}

// name returns the full name from either the split or the combined columns.
func (r *fieldReader) name(s *schema, given, surname, combined Field) string {
	if s.splitNames {
		return coalesceName(r.get(given), r.get(surname))
	}

	return r.get(combined).String()
}

// Normalize maps one raw row to a canonical record. Data problems never fail;
// they are reported through the record's check columns.
func (n *Normalizer) Normalize(raw models.RawRecord, layout Layout, seq int64) (models.CanonicalRecord, error) {
	id, err := FormatID(seq)
	if err != nil {
		return models.CanonicalRecord{}, err
	}

	s, err := schemaFor(layout)
	if err != nil {
		return models.CanonicalRecord{}, err
	}

	r := &fieldReader{rec: raw, layout: layout}

	rec := models.CanonicalRecord{
		ID:             id,
		Status:         statusOrDefault(r.get(FieldStatus)),
		MemberDOB:      r.get(FieldMemberDOB),
		SpouseDOB:      r.get(FieldSpouseDOB),
		SpouseGender:   r.get(FieldSpouseGender),
		PostalCode:     r.get(FieldPostalCode),
		RetirementDate: r.get(FieldRetirementDate),
		DeathDate:      r.get(FieldDeathDate),
		Pension:        r.get(FieldPension),
		GuaranteeYears: r.get(FieldGuaranteeYears),
		GuaranteeEnd:   r.get(FieldGuaranteeEnd),
		Unlocated:      r.get(FieldUnlocated),
		MaritalStatus:  r.get(FieldMaritalStatus),
	}

	married := isText(rec.MaritalStatus, maritalMarried)

	rec.MissingDOB = missingFlag(rec.MemberDOB)
	rec.MissingSpouseDOB = missingFlag(rec.SpouseDOB)

	if s.numericGender {
		rec.PayeeGender = decodeGenderCode(r.get(FieldMemberGender))
	} else {
		rec.PayeeGender = r.get(FieldMemberGender)
	}

	rec.MemberGenderAnomaly = memberGenderAnomaly(rec.PayeeGender)
	rec.SpouseGenderAnomaly = spouseGenderAnomaly(rec.SpouseGender, married)
	rec.GenderMismatch = genderMismatch(rec.PayeeGender, rec.SpouseGender)

	if s.hasProvince {
		rec.Province = r.get(FieldProvince)
	} else {
		rec.Province = models.Text(FlagUnspecified)
	}

	rec.PostalCodeCheck = postalCodeCheck(n.postalCode, rec.PostalCode)
	rec.PensionCheck = pensionCheck(rec.Pension)
	rec.GuaranteeCheck = guaranteeCheck(rec.GuaranteeYears, rec.GuaranteeEnd)
	rec.UnlocatedCheck = unlocatedCheck(rec.Unlocated)

	rec.MemberName = r.name(s, FieldMemberGivenName, FieldMemberSurname, FieldMemberName)
	rec.MemberNameCheck = memberNameCheck(rec.MemberName)
	rec.SpouseName = r.name(s, FieldSpouseGivenName, FieldSpouseSurname, FieldSpouseName)
	rec.SpouseNameCheck = spouseNameCheck(rec.SpouseName, married)
	rec.BeneficiaryName = r.name(s, FieldBeneficiaryGivenName, FieldBeneficiarySurname, FieldBeneficiaryName)
	rec.BeneficiaryNameCheck = beneficiaryNameCheck(rec.BeneficiaryName, rec.Status)

	if r.err != nil {
		return models.CanonicalRecord{}, fmt.Errorf("row %s: %w", id, r.err)
	}

	return rec, nil
}
