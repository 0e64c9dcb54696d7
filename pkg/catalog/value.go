package catalog

import (
	"fmt"
	"strconv"
)

// Datatype names understood by the catalog and its codecs. They follow the
// ECSV naming so persisted columns round-trip against astropy-written files.
const (
	TypeString  = "string"
	TypeFloat64 = "float64"
	TypeInt64   = "int64"
	TypeBool    = "bool"
)

// Column describes one metadata column: its name, cell datatype, and an
// optional physical unit carried through persistence.
type Column struct {
	Name     string
	Datatype string
	Unit     string
}

// Value is a typed-nullable cell value. The zero Value is null. A null cell
// records that a collector was inapplicable or failed for that row; it is an
// explicit part of the table, not an implicit absence.
type Value struct {
	valid bool
	data  any
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{valid: true, data: s} }

// Float returns a float64 value.
func Float(f float64) Value { return Value{valid: true, data: f} }

// Int returns an int64 value.
func Int(i int64) Value { return Value{valid: true, data: i} }

// Bool returns a bool value.
func Bool(b bool) Value { return Value{valid: true, data: b} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return !v.valid }

// Any returns the underlying value, or nil for null.
func (v Value) Any() any {
	if !v.valid {
		return nil
	}
	return v.data
}

// Equal reports whether two values are identical in nullness, type, and data.
func (v Value) Equal(o Value) bool { return v == o }

// Text renders the value for tabular serialization. Null renders as the
// empty string.
func (v Value) Text() string {
	if !v.valid {
		return ""
	}
	switch d := v.data.(type) {
	case string:
		return d
	case float64:
		return strconv.FormatFloat(d, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(d, 10)
	case bool:
		return strconv.FormatBool(d)
	default:
		return fmt.Sprint(d)
	}
}

// ParseValue parses a serialized cell into a Value of the given datatype.
// The empty string parses as null for every datatype.
func ParseValue(text, datatype string) (Value, error) {
	if text == "" {
		return Null(), nil
	}
	switch datatype {
	case TypeFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	case TypeInt64:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Null(), err
		}
		return Int(i), nil
	case TypeBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return Null(), err
		}
		return Bool(b), nil
	default:
		return String(text), nil
	}
}
