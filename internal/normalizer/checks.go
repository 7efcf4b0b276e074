package normalizer

import (
	"regexp"

	"pensionqa/internal/models"
)

// Flag values written to the check and anomaly columns.
const (
	FlagYes                 = "Yes"
	FlagNo                  = "No"
	FlagUnspecified         = "Unspecified"
	FlagGood                = "Good"
	FlagMissingGender       = "Missing gender"
	FlagIncorrectGenderCode = "Incorrect gender code"
	FlagCorrect             = "Correct"
	FlagIncorrectCode       = "Incorrect code"
	FlagIncorrectAmount     = "Incorrect amount"
	FlagInvestigate         = "Investigate"
)

const (
	statusBeneficiary = "Beneficiary"
	maritalMarried    = "Yes"
	unlocatedYes      = "Y"
	genderUnknown     = "X"
)

// DefaultPostalCodePattern matches a Canadian postal code such as "A1A 1A1".
const DefaultPostalCodePattern = `^\p{L}\p{Nd}\p{L} \p{Nd}\p{L}\p{Nd}$`

var defaultPostalCode = regexp.MustCompile(DefaultPostalCodePattern)

func isText(v models.Value, want string) bool {
	s, ok := v.AsText()
	return ok && s == want
}

// blank reports whether v is absent or empty text.
func blank(v models.Value) bool {
	s, ok := v.AsText()
	return v.IsEmpty() || (ok && s == "")
}

func yesNo(b bool) string {
	if b {
		return FlagYes
	}

	return FlagNo
}

func statusOrDefault(v models.Value) models.Value {
	if v.IsEmpty() {
		return models.Text(FlagUnspecified)
	}

	return v
}

func missingFlag(v models.Value) string {
	return yesNo(v.IsEmpty())
}

// decodeGenderCode maps the numeric gender code used by layout B.
func decodeGenderCode(v models.Value) models.Value {
	code, ok := v.AsNumber()
	if !ok {
		return models.Text(genderUnknown)
	}

	switch code {
	case 1:
		return models.Text("M")
	case 2:
		return models.Text("F")
	default:
		return models.Text(genderUnknown)
	}
}

func validGender(v models.Value) bool {
	return isText(v, "M") || isText(v, "F")
}

func memberGenderAnomaly(gender models.Value) string {
	switch {
	case blank(gender):
		return FlagMissingGender
	case !validGender(gender):
		return FlagIncorrectGenderCode
	default:
		return FlagGood
	}
}

// spouseGenderAnomaly only flags a spouse gender when the payee is married.
func spouseGenderAnomaly(gender models.Value, married bool) string {
	switch {
	case !married:
		return FlagGood
	case gender.IsEmpty():
		return FlagMissingGender
	case !validGender(gender):
		return FlagIncorrectGenderCode
	default:
		return FlagGood
	}
}

// genderMismatch is a literal equality test: two absent genders match.
func genderMismatch(member, spouse models.Value) string {
	return yesNo(member.Equal(spouse))
}

func postalCodeCheck(pattern *regexp.Regexp, code models.Value) string {
	s, ok := code.AsText()
	if ok && pattern.MatchString(s) {
		return FlagCorrect
	}

	return FlagIncorrectCode
}

func pensionCheck(amount models.Value) string {
	n, ok := amount.AsNumber()
	if ok && n > 0 {
		return FlagCorrect
	}

	return FlagIncorrectAmount
}

// guaranteeCheck fails only when a guarantee period is given without an end date.
func guaranteeCheck(years, end models.Value) string {
	if end.IsEmpty() && !blank(years) {
		return FlagNo
	}

	return FlagYes
}

func unlocatedCheck(flag models.Value) string {
	if isText(flag, unlocatedYes) {
		return FlagInvestigate
	}

	return FlagCorrect
}

// coalesceName joins given name and surname, skipping whichever is absent.
func coalesceName(given, surname models.Value) string {
	switch {
	case given.IsEmpty() && surname.IsEmpty():
		return ""
	case given.IsEmpty():
		return surname.String()
	case surname.IsEmpty():
		return given.String()
	default:
		return given.String() + " " + surname.String()
	}
}

func memberNameCheck(name string) string {
	return yesNo(len(name) > 0)
}

func spouseNameCheck(name string, married bool) string {
	return yesNo(!(name == "" && married))
}

func beneficiaryNameCheck(name string, status models.Value) string {
	return yesNo(!(name == "" && isText(status, statusBeneficiary)))
}
