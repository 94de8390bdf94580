package engine

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a finite number or an explicit missing marker.
// The zero value is missing.
type Value struct {
	v     float64
	valid bool
}

// Missing is the absent value.
var Missing = Value{}

// Some wraps f. NaN and infinities become Missing.
func Some(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	return Value{v: f, valid: true}
}

// Float returns the number and whether it is present.
func (v Value) Float() (float64, bool) { return v.v, v.valid }

// Valid reports whether the value is present.
func (v Value) Valid() bool { return v.valid }

// Or returns the number, or def when missing.
func (v Value) Or(def float64) float64 {
	if !v.valid {
		return def
	}
	return v.v
}

// Coerce re-checks the finite-or-missing invariant.
func (v Value) Coerce() Value {
	if !v.valid {
		return Missing
	}
	return Some(v.v)
}

func (v Value) String() string {
	if !v.valid {
		return ""
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Missing
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// ParseMagnitude converts "3.2M", "450k", "1,234" or a plain number into a
// Value. Anything unparseable is Missing; it never fails.
func ParseMagnitude(raw string) Value {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))

	scale := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		s, scale = s[:len(s)-1], 1_000_000
	case strings.HasSuffix(s, "k"):
		s, scale = s[:len(s)-1], 1_000
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Missing
	}
	return Some(f * scale)
}

// ParseCell applies ParseMagnitude to a present cell.
func ParseCell(c Cell) Value {
	if !c.Present {
		return Missing
	}
	return ParseMagnitude(c.Text)
}
