package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotPrimitive   = errors.New("not a primitive type")
	ErrNotAllowed     = errors.New("conversion category not allowed")
	ErrOutOfRange     = errors.New("value out of range")
	ErrInvalidBoolean = errors.New("invalid boolean")
)

// ConversionError describes a value that could not be coerced to a
// destination type.
type ConversionError struct {
	From reflect.Type
	To   reflect.Type
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v to %v: %v", e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

var stringerType = reflect.TypeFor[fmt.Stringer]()

// Convert coerces v to the type to, using only the conversion families in
// allowed. An invalid v yields the zero value of to. Values already
// assignable to `to` are returned as they are.
func Convert(v reflect.Value, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(to), nil
	}

	if v.Type().AssignableTo(to) {
		if v.Type() == to {
			return v, nil
		}

		res := reflect.New(to).Elem()
		res.Set(v)

		return res, nil
	}

	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &ConversionError{From: v.Type(), To: to, Err: err}
	}

	srcKind := FromReflectType(v.Type())
	dstKind := FromReflectType(to)

	if srcKind == 0 || dstKind == 0 {
		return fail(ErrNotPrimitive)
	}

	if !(ConversionPair{srcKind, dstKind}).AllowedBy(allowed) {
		return fail(ErrNotAllowed)
	}

	// enums are converted through their underlying kind, except that an enum
	// implementing fmt.Stringer renders through String() when going to text
	if srcKind == KindPrimitiveEnum {
		if dstKind == KindString && v.Type().Implements(stringerType) {
			return reflect.ValueOf(v.Interface().(fmt.Stringer).String()).Convert(to), nil
		}

		srcKind = baseKind(v.Type())
		v = v.Convert(baseType(srcKind))
	}

	target := to
	if dstKind == KindPrimitiveEnum {
		dstKind = baseKind(to)
		target = baseType(dstKind)
	}

	res, err := convertKinds(v, srcKind, dstKind, target)
	if err != nil {
		return fail(err)
	}

	return res.Convert(to), nil
}

// ConvertValue is the interface-typed form of Convert.
func ConvertValue(v any, to reflect.Type, allowed CategoryEnum) (any, error) {
	res, err := Convert(reflect.ValueOf(v), to, allowed)
	if err != nil {
		return nil, err
	}

	return res.Interface(), nil
}

func convertKinds(v reflect.Value, from, to KindEnum, target reflect.Type) (reflect.Value, error) {
	switch {
	case from == to:
		return v.Convert(target), nil
	case from.IsNumber() && to.IsNumber():
		return convertNumber(v, from, to, target)
	case from.IsNumber() && to == KindString:
		return reflect.ValueOf(formatNumber(v, from)), nil
	case from == KindString && to.IsNumber():
		return parseNumber(strings.TrimSpace(v.String()), to, target)
	case from.IsInteger() && to == KindBool:
		return intToBool(v, from)
	case from == KindBool && to.IsInteger():
		if v.Bool() {
			return reflect.ValueOf(1).Convert(target), nil
		}

		return reflect.Zero(target), nil
	case from == KindString && to == KindBool:
		return parseBool(v.String())
	case from == KindBool && to == KindString:
		return reflect.ValueOf(strconv.FormatBool(v.Bool())), nil
	case from == KindString && to == KindTime:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String()))
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(t), nil
	case from == KindTime && to == KindString:
		return reflect.ValueOf(v.Interface().(time.Time).Format(time.RFC3339Nano)), nil
	case from == KindString && to == KindDuration:
		d, err := time.ParseDuration(strings.TrimSpace(v.String()))
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(d), nil
	case from == KindDuration && to == KindString:
		return reflect.ValueOf(time.Duration(v.Int()).String()), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %v to %v", ErrNotAllowed, from, to)
}

func convertNumber(v reflect.Value, from, to KindEnum, target reflect.Type) (reflect.Value, error) {
	res := reflect.New(target).Elem()

	switch {
	case to.IsFloat():
		f := toFloat(v, from)
		if res.OverflowFloat(f) {
			return reflect.Value{}, ErrOutOfRange
		}

		res.SetFloat(f)
	case to.IsSigned():
		var n int64

		switch {
		case from.IsSigned():
			n = v.Int()
		case from.IsUnsigned():
			if v.Uint() > math.MaxInt64 {
				return reflect.Value{}, ErrOutOfRange
			}

			n = int64(v.Uint())
		default:
			f := v.Float()
			if f < math.MinInt64 || f >= math.MaxInt64 || math.IsNaN(f) {
				return reflect.Value{}, ErrOutOfRange
			}

			n = int64(f)
		}

		if res.OverflowInt(n) {
			return reflect.Value{}, ErrOutOfRange
		}

		res.SetInt(n)
	default:
		var n uint64

		switch {
		case from.IsSigned():
			if v.Int() < 0 {
				return reflect.Value{}, ErrOutOfRange
			}

			n = uint64(v.Int())
		case from.IsUnsigned():
			n = v.Uint()
		default:
			f := v.Float()
			if f < 0 || f >= math.MaxUint64 || math.IsNaN(f) {
				return reflect.Value{}, ErrOutOfRange
			}

			n = uint64(f)
		}

		if res.OverflowUint(n) {
			return reflect.Value{}, ErrOutOfRange
		}

		res.SetUint(n)
	}

	return res, nil
}

func toFloat(v reflect.Value, from KindEnum) float64 {
	switch {
	case from.IsSigned():
		return float64(v.Int())
	case from.IsUnsigned():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func formatNumber(v reflect.Value, from KindEnum) string {
	switch {
	case from.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case from.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatFloat(v.Float(), 'f', -1, from.Bits())
	}
}

func parseNumber(s string, to KindEnum, target reflect.Type) (reflect.Value, error) {
	res := reflect.New(target).Elem()

	switch {
	case to.IsSigned():
		n, err := strconv.ParseInt(s, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetInt(n)
	case to.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetUint(n)
	default:
		f, err := strconv.ParseFloat(s, to.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		res.SetFloat(f)
	}

	return res, nil
}

func intToBool(v reflect.Value, from KindEnum) (reflect.Value, error) {
	var n int64
	if from.IsSigned() {
		n = v.Int()
	} else if v.Uint() <= 1 {
		n = int64(v.Uint())
	} else {
		n = -1
	}

	switch n {
	case 0:
		return reflect.ValueOf(false), nil
	case 1:
		return reflect.ValueOf(true), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: only numbers 0 and 1 are allowed", ErrInvalidBoolean)
	}
}

func parseBool(s string) (reflect.Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	default:
		return reflect.Value{}, fmt.Errorf("%w: only true/false, yes/no, on/off are allowed, got %q", ErrInvalidBoolean, s)
	case "true", "yes", "on":
		return reflect.ValueOf(true), nil
	case "false", "no", "off":
		return reflect.ValueOf(false), nil
	}
}

// baseKind classifies a type by its reflect.Kind alone, ignoring its name.
func baseKind(t reflect.Type) KindEnum {
	switch t.Kind() {
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
	case reflect.String:
		return KindString
	default:
		return 0
	}
}

var baseTypes = map[KindEnum]reflect.Type{
	KindInt:     reflect.TypeFor[int](),
	KindInt8:    reflect.TypeFor[int8](),
	KindInt16:   reflect.TypeFor[int16](),
	KindInt32:   reflect.TypeFor[int32](),
	KindInt64:   reflect.TypeFor[int64](),
	KindUint:    reflect.TypeFor[uint](),
	KindUint8:   reflect.TypeFor[uint8](),
	KindUint16:  reflect.TypeFor[uint16](),
	KindUint32:  reflect.TypeFor[uint32](),
	KindUint64:  reflect.TypeFor[uint64](),
	KindFloat32: reflect.TypeFor[float32](),
	KindFloat64: reflect.TypeFor[float64](),
	KindBool:    reflect.TypeFor[bool](),
	KindString:  reflect.TypeFor[string](),
}

// baseType returns the builtin type for a builtin kind.
func baseType(k KindEnum) reflect.Type {
	return baseTypes[k]
}
