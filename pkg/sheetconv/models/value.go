// Package models defines the tabular data structures shared by all converters.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindEmpty is an absent or blank cell.
	KindEmpty Kind = iota
	// KindNumber is a double-precision number.
	KindNumber
	// KindText is a string.
	KindText
	// KindBool is a boolean.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Value is a single cell value. The zero Value is Empty.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
}

// Empty returns an empty cell value.
func Empty() Value { return Value{} }

// Number returns a numeric cell value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a string cell value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a boolean cell value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the Empty variant.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Float returns the number held by v.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.text, v.kind == KindText }

// Boolean returns the boolean held by v.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// String returns the default string representation used when a cell is
// written as text.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// MarshalJSON renders Empty as null and the other variants as their JSON
// counterparts.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	case KindBool:
		return json.Marshal(v.b)
	}
	return []byte("null"), nil
}

// ParseValue infers a Value from text: numbers and the literals true/false
// are converted, an empty string is Empty, everything else is Text.
func ParseValue(s string) Value {
	if s == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Text(s)
}
