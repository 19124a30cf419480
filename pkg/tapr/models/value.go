// Package models defines the tabular data structures shared by the profile pipeline.
package models

import (
	"math"
	"strconv"
	"strings"
)

// MaskedText is the literal written for suppressed cells.
const MaskedText = "MASKED"

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindMissing marks an absent cell.
	KindMissing Kind = iota
	// KindNumber marks a numeric cell.
	KindNumber
	// KindText marks a cell that could not be read as a number.
	KindText
	// KindMasked marks a cell suppressed by the masking policy.
	KindMasked
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindMasked:
		return "masked"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a single cell: Missing, Number, Text or Masked.
// The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing returns an absent cell.
func Missing() Value { return Value{} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a string cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Masked returns a suppressed cell.
func Masked() Value { return Value{kind: KindMasked} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is absent.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsMasked reports whether v was suppressed.
func (v Value) IsMasked() bool { return v.kind == KindMasked }

// Float returns the numeric payload and whether v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Str returns the text payload and whether v is Text.
func (v Value) Str() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.text == o.text
}

// String renders the value the way it appears in an output sheet.
// Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindMasked:
		return MaskedText
	default:
		return ""
	}
}

// ParseValue converts raw cell text into a Value.
// Empty text is Missing, numeric text is Number, anything else is Text.
func ParseValue(s string) Value {
	if s == "" {
		return Missing()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(s)
	}
	return Number(f)
}

// Add returns the sum of the operands, or Missing if any operand is not a Number.
func Add(vals ...Value) Value {
	var sum float64
	for _, v := range vals {
		f, ok := v.Float()
		if !ok {
			return Missing()
		}
		sum += f
	}
	return Number(sum)
}

// Mul returns a*b, or Missing if either operand is not a Number.
func Mul(a, b Value) Value {
	x, ok := a.Float()
	if !ok {
		return Missing()
	}
	y, ok := b.Float()
	if !ok {
		return Missing()
	}
	return Number(x * y)
}
