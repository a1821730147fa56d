package primitive

import (
	"reflect"
	"strconv"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the primitive value types the binding engine knows how
// to convert between when a model property and a target property disagree.
type KindEnum int

const (
	_ KindEnum = iota // zero value is reserved for "not a primitive"

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named integer or string type, e.g. `type Status string`

	// KindTotal is the number of kinds including the reserved zero value.
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits returns the storage width of a numeric kind. Platform-sized int and
// uint report the width of the running platform.
func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful bit width, but requested for: " + k.String())
	case KindInt, KindUint:
		return strconv.IntSize
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

// mantissa returns the number of integer bits a float kind represents exactly.
func (k KindEnum) mantissa() int {
	switch k {
	case KindFloat32:
		return 24
	case KindFloat64:
		return 53
	default:
		return 0
	}
}

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
)

// FromReflectType classifies rtype. Named types over int or string kinds that
// are not one of the builtin types are reported as KindPrimitiveEnum; anything
// else returns the zero KindEnum.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	switch rtype {
	case timeType:
		return KindTime
	case durationType:
		return KindDuration
	}

	if rtype.PkgPath() != "" {
		switch rtype.Kind() {
		default:
			return 0
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.String:
			return KindPrimitiveEnum
		}
	}

	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int:
		return KindInt
	case reflect.Int8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Uint:
		return KindUint
	case reflect.Uint8:
		return KindUint8
	case reflect.Uint16:
		return KindUint16
	case reflect.Uint32:
		return KindUint32
	case reflect.Uint64:
		return KindUint64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	case reflect.Bool:
		return KindBool
	case reflect.String:
		return KindString
	}
}

// FromValue classifies the dynamic type of v.
func FromValue(v any) KindEnum {
	if v == nil {
		return 0
	}

	return FromReflectType(reflect.TypeOf(v))
}
