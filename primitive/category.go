package primitive

// CategoryEnum is a bit set of conversion families. A binding only coerces
// between kinds whose pair belongs to one of the allowed families.
type CategoryEnum int

// ConversionPair is an ordered (source, destination) kind pair.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with possible precision loss or overflow
	CategoryTextNumber                            // int, uint, float <-> string
	CategoryNumericBool                           // int <-> bool: 0, 1
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time
	CategoryDuration                              // string(2h45m) <-> time.Duration
	CategoryEnumString                            // string <-> enum, enum <-> its underlying kind

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDefault is what bindings allow unless told otherwise: everything
	// a text or selection control can reasonably round-trip.
	CategoryDefault = CategorySafeNumber | CategoryTextNumber | CategoryTextualBool |
		CategoryDatetime | CategoryDuration | CategoryEnumString
)

// Category returns the single family covering the pair, or CategoryNone when
// no family converts between the two kinds. Identical kinds are safe numbers
// when numeric and CategoryNone otherwise (no conversion is needed).
func (p ConversionPair) Category() CategoryEnum {
	from, to := p.From, p.To

	switch {
	case from.IsNumber() && to.IsNumber():
		if isSafeNumber(from, to) {
			return CategorySafeNumber
		}

		return CategoryUnsafeNumber
	case from.IsNumber() && to == KindString, from == KindString && to.IsNumber():
		return CategoryTextNumber
	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return CategoryNumericBool
	case from == KindString && to == KindBool, from == KindBool && to == KindString:
		return CategoryTextualBool
	case from == KindString && to == KindTime, from == KindTime && to == KindString:
		return CategoryDatetime
	case from == KindString && to == KindDuration, from == KindDuration && to == KindString:
		return CategoryDuration
	case from == KindPrimitiveEnum || to == KindPrimitiveEnum:
		return CategoryEnumString
	}

	return CategoryNone
}

// AllowedBy reports whether allowed contains the pair's family.
func (p ConversionPair) AllowedBy(allowed CategoryEnum) bool {
	c := p.Category()

	return c != CategoryNone && allowed&c != 0
}

// isSafeNumber reports whether every value of from is representable in to.
// Platform-sized int and uint are assumed to be anywhere from 32 to 64 bits
// wide, so they are treated as 64 bits when read and 32 bits when written.
func isSafeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	switch {
	case from.IsFloat():
		return to == KindFloat64
	case to.IsFloat():
		return readWidth(from) <= to.mantissa()
	case from.IsSigned() && to.IsUnsigned():
		return false
	case from.IsUnsigned() && to.IsSigned():
		return readWidth(from) < writeWidth(to)
	default:
		return readWidth(from) <= writeWidth(to)
	}
}

func readWidth(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 64
	}

	return k.Bits()
}

func writeWidth(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 32
	}

	return k.Bits()
}
