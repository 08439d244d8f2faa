package types

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Model output and hand-written resume files disagree on scalar types
// ("85" vs 85, "Go" vs ["Go"]). The types below decode whatever arrives
// into one shape and never fail.

// Text is a string that accepts any JSON value.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*t = ""
		return nil
	}
	*t = Text(Stringify(v))
	return nil
}

func (t Text) String() string { return string(t) }

// TextList is a list of strings that accepts a single value or an array.
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*l = nil
		return nil
	}
	*l = toTextList(v)
	return nil
}

func toTextList(v any) TextList {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make(TextList, 0, len(val))
		for _, item := range val {
			if s := Stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := Stringify(val); s != "" {
			return TextList{s}
		}
		return nil
	}
}

// Number is a float that accepts numbers and numeric strings such as "85分".
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*n = 0
		return nil
	}
	f, _ := ParseNumber(v)
	*n = Number(f)
	return nil
}

// Float returns n as float64, zero for nil.
func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// Flag is a bool that accepts booleans, numbers and yes/no style strings.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*f = false
		return nil
	}
	switch val := v.(type) {
	case bool:
		*f = Flag(val)
	case float64:
		*f = val != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y", "1", "是":
			*f = true
		default:
			*f = false
		}
	default:
		*f = false
	}
	return nil
}

func NumberPtr(v float64) *Number { n := Number(v); return &n }

func FlagPtr(v bool) *Flag { f := Flag(v); return &f }

var leadingNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseNumber reads a number out of a decoded JSON value. Strings yield
// their first numeric run.
func ParseNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		m := leadingNumber.FindString(val)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Stringify renders a decoded JSON value as display text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := Stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "；")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
