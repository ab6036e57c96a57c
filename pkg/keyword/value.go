package keyword

import (
	"fmt"
	"math"
	"strconv"

	"github.com/astrokit/astrofile/pkg/aerr"
)

// Type tags the scalar stored in a Value.
type Type int

const (
	TypeNone Type = iota
	TypeBool
	TypeString
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeFloat32
	TypeFloat64
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeUInt8:
		return "uint8"
	case TypeUInt16:
		return "uint16"
	case TypeUInt32:
		return "uint32"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return "none"
	}
}

// Value is a tagged scalar. The zero Value has TypeNone and answers no
// conversions. Signed and unsigned integers share the i field; the tag
// decides how it is interpreted.
type Value struct {
	tag Type
	i   int64
	f   float64
	s   string
	b   bool
}

func Bool(v bool) Value      { return Value{tag: TypeBool, b: v} }
func String(v string) Value  { return Value{tag: TypeString, s: v} }
func Int8(v int8) Value      { return Value{tag: TypeInt8, i: int64(v)} }
func Int16(v int16) Value    { return Value{tag: TypeInt16, i: int64(v)} }
func Int32(v int32) Value    { return Value{tag: TypeInt32, i: int64(v)} }
func Int64(v int64) Value    { return Value{tag: TypeInt64, i: v} }
func UInt8(v uint8) Value    { return Value{tag: TypeUInt8, i: int64(v)} }
func UInt16(v uint16) Value  { return Value{tag: TypeUInt16, i: int64(v)} }
func UInt32(v uint32) Value  { return Value{tag: TypeUInt32, i: int64(v)} }
func Float32(v float32) Value { return Value{tag: TypeFloat32, f: float64(v)} }
func Float64(v float64) Value { return Value{tag: TypeFloat64, f: v} }

func (v Value) Type() Type { return v.tag }

func (v Value) isInteger() bool {
	switch v.tag {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeUInt8, TypeUInt16, TypeUInt32:
		return true
	}
	return false
}

func (v Value) isFloat() bool {
	return v.tag == TypeFloat32 || v.tag == TypeFloat64
}

// intValue reduces any numeric value to an int64, failing if a float
// carries a fractional part or exceeds the int64 range.
func (v Value) intValue() (int64, error) {
	switch {
	case v.isInteger():
		return v.i, nil
	case v.isFloat():
		if v.f != math.Trunc(v.f) {
			return 0, aerr.Rangef("value %v has a fractional part", v.f)
		}
		if v.f > math.MaxInt64 || v.f < math.MinInt64 {
			return 0, aerr.Rangef("value %v exceeds the int64 range", v.f)
		}
		return int64(v.f), nil
	default:
		return 0, aerr.Rangef("%s value is not numeric", v.tag)
	}
}

func (v Value) intIn(min, max int64) (int64, error) {
	n, err := v.intValue()
	if err != nil {
		return 0, err
	}
	if n < min || n > max {
		return 0, aerr.Rangef("value %d outside [%d, %d]", n, min, max)
	}
	return n, nil
}

// AsInt64 returns the value widened to a signed 64-bit integer. All
// integer-valued keywords fit; floats must be integral.
func (v Value) AsInt64() (int64, error) { return v.intValue() }

func (v Value) AsInt32() (int32, error) {
	n, err := v.intIn(math.MinInt32, math.MaxInt32)
	return int32(n), err
}

func (v Value) AsInt16() (int16, error) {
	n, err := v.intIn(math.MinInt16, math.MaxInt16)
	return int16(n), err
}

func (v Value) AsInt8() (int8, error) {
	n, err := v.intIn(math.MinInt8, math.MaxInt8)
	return int8(n), err
}

func (v Value) AsUInt32() (uint32, error) {
	n, err := v.intIn(0, math.MaxUint32)
	return uint32(n), err
}

func (v Value) AsUInt16() (uint16, error) {
	n, err := v.intIn(0, math.MaxUint16)
	return uint16(n), err
}

func (v Value) AsUInt8() (uint8, error) {
	n, err := v.intIn(0, math.MaxUint8)
	return uint8(n), err
}

// AsFloat64 never fails for numeric values: every stored integer width
// is representable (possibly with rounding for large int64s, as in any
// float widening).
func (v Value) AsFloat64() (float64, error) {
	switch {
	case v.isFloat():
		return v.f, nil
	case v.isInteger():
		return float64(v.i), nil
	default:
		return 0, aerr.Rangef("%s value is not numeric", v.tag)
	}
}

func (v Value) AsFloat32() (float32, error) {
	f, err := v.AsFloat64()
	if err != nil {
		return 0, err
	}
	if f != 0 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, aerr.Rangef("value %v exceeds the float32 range", f)
	}
	return float32(f), nil
}

func (v Value) AsBool() (bool, error) {
	if v.tag != TypeBool {
		return false, aerr.Rangef("%s value is not a bool", v.tag)
	}
	return v.b, nil
}

func (v Value) AsString() (string, error) {
	if v.tag != TypeString {
		return "", aerr.Rangef("%s value is not a string", v.tag)
	}
	return v.s, nil
}

// String renders the value for display and for header dumps; it never
// fails, unlike the As* conversions.
func (v Value) String() string {
	switch {
	case v.tag == TypeBool:
		if v.b {
			return "T"
		}
		return "F"
	case v.tag == TypeString:
		return v.s
	case v.isInteger():
		return strconv.FormatInt(v.i, 10)
	case v.isFloat():
		return fmt.Sprintf("%g", v.f)
	default:
		return ""
	}
}
