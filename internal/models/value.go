package models

import (
	"strconv"
	"time"
)

// DateLayout is the textual form used when a date cell has to be rendered as text.
const DateLayout = "2006-01-02"

// Kind identifies which variant a Value holds.
type Kind uint8

// Cell value kinds.
const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single spreadsheet cell. The zero Value is empty, which is
// distinct from empty text and from the number zero.
type Value struct {
	kind Kind
	text string
	num  float64
	date time.Time
}

// Empty returns an absent cell value.
func Empty() Value { return Value{} }

// Text returns a text cell value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Date returns a date cell value.
func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether the cell is absent.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// AsText returns the text and true when v is a text cell.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsNumber returns the number and true when v is a numeric cell.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsDate returns the date and true when v is a date cell.
func (v Value) AsDate() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders the value as display text. Empty cells render as "".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return ""
	}
}

// Equal reports whether both values hold the same variant and content.
// Two empty values are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.num == other.num
	case KindDate:
		return v.date.Equal(other.date)
	default:
		return true
	}
}

// Any returns the value as a plain Go value suitable for spreadsheet and
// database writers: nil, string, float64 or time.Time.
func (v Value) Any() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.num
	case KindDate:
		return v.date
	default:
		return nil
	}
}
