package gametrad

import (
	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Silver is the currency code registered for the in-game silver tael.
// The whole economy is quoted in it, so Money carries no currency field.
const Silver = "SLV"

func init() {
	money.AddCurrency(Silver, "银两", "1 $", ".", ",", 2)
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Money represents an amount of in-game silver.
type Money struct {
	value decimal.Decimal
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// String returns the amount formatted as silver taels.
func (m Money) String() string {
	cur := money.GetCurrency(Silver)
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Decimal returns the raw decimal value, for formula evaluation.
func (m Money) Decimal() decimal.Decimal { return m.value }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }

// MulQty scales the amount by an integer quantity.
func (m Money) MulQty(q int64) Money {
	return Money{value: m.value.Mul(decimal.NewFromInt(q))}
}

// DivQty divides the amount by an integer quantity. q must not be zero;
// callers guard the zero case (an empty side of the ledger averages to 0).
func (m Money) DivQty(q int64) Money {
	return Money{value: m.value.Div(decimal.NewFromInt(q))}
}

// MarshalJSON implements the json.Marshaler interface.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.value.UnmarshalJSON(b)
}
