package resp

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Null is the RESP3 null value.
type Null struct {
	Attr *Attribute
}

func (Null) Kind() Kind                   { return KindNull }
func (v Null) Attribute() *Attribute      { return v.Attr }
func (v Null) WithAttr(a *Attribute) Null { v.Attr = a; return v }
func (v Null) attach(a *Attribute) Value  { return v.WithAttr(a) }
func (v Null) validate() error            { return validateAttr(v.Attr) }
func (v Null) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	return append(dst, TypeNull, '\r', '\n')
}

type Boolean struct {
	Value bool
	Attr  *Attribute
}

func (Boolean) Kind() Kind                      { return KindBoolean }
func (v Boolean) Attribute() *Attribute         { return v.Attr }
func (v Boolean) WithAttr(a *Attribute) Boolean { v.Attr = a; return v }
func (v Boolean) attach(a *Attribute) Value     { return v.WithAttr(a) }
func (v Boolean) validate() error               { return validateAttr(v.Attr) }
func (v Boolean) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	c := byte('f')
	if v.Value {
		c = 't'
	}
	return append(dst, TypeBoolean, c, '\r', '\n')
}

// Number is a signed 64-bit integer.
type Number struct {
	Value int64
	Attr  *Attribute
}

func (Number) Kind() Kind                     { return KindNumber }
func (v Number) Attribute() *Attribute        { return v.Attr }
func (v Number) WithAttr(a *Attribute) Number { v.Attr = a; return v }
func (v Number) attach(a *Attribute) Value    { return v.WithAttr(a) }
func (v Number) validate() error              { return validateAttr(v.Attr) }
func (v Number) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeNumber)
	dst = strconv.AppendInt(dst, v.Value, 10)
	return append(dst, CRLF...)
}

// BigNumber is an arbitrary precision signed integer. A nil Value reads as
// zero. The pointed-to integer must not be modified once the BigNumber is
// built; NewBigNumber copies its argument.
type BigNumber struct {
	Value *big.Int
	Attr  *Attribute
}

func NewBigNumber(x *big.Int) BigNumber {
	if x == nil {
		return BigNumber{Value: new(big.Int)}
	}
	return BigNumber{Value: new(big.Int).Set(x)}
}

func (BigNumber) Kind() Kind                        { return KindBigNumber }
func (v BigNumber) Attribute() *Attribute           { return v.Attr }
func (v BigNumber) WithAttr(a *Attribute) BigNumber { v.Attr = a; return v }
func (v BigNumber) attach(a *Attribute) Value       { return v.WithAttr(a) }
func (v BigNumber) validate() error                 { return validateAttr(v.Attr) }
func (v BigNumber) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeBigNumber)
	dst = v.int().Append(dst, 10)
	return append(dst, CRLF...)
}

func (v BigNumber) String() string {
	return v.int().String()
}

func (v BigNumber) int() *big.Int {
	if v.Value == nil {
		return new(big.Int)
	}
	return v.Value
}

type Sign uint8

const (
	Plus Sign = iota
	Minus
)

func (s Sign) String() string {
	if s == Minus {
		return "-"
	}
	return "+"
}

// Double is a RESP3 double kept as the decimal literal it was written with.
// Equality and ordering look at the literal (infinity flag, sign, integer
// digits, fraction digits); the float64 is derived from it and only serves
// numeric access. ",1.5\r\n" and ",1.50\r\n" are therefore different values.
//
// The zero Double is the literal "0".
type Double struct {
	inf     bool
	sign    Sign
	intPart string
	frac    string
	hasFrac bool
	f       float64

	Attr *Attribute
}

// Inf returns the signed infinity.
func Inf(sign Sign) Double {
	return Double{inf: true, sign: sign}
}

// ParseDoubleLiteral builds a Double from its textual payload, e.g. "-1.25"
// or "inf".
func ParseDoubleLiteral(s string) (Double, error) {
	d, err := doubleFromBytes([]byte(s))
	if err != nil {
		return Double{}, invalidValue("double literal %q: %v", s, err)
	}
	return d, nil
}

// DoubleFromFloat builds the shortest literal that reads back as f. NaN has no
// RESP3 literal in this grammar and is rejected.
func DoubleFromFloat(f float64) (Double, error) {
	switch {
	case math.IsNaN(f):
		return Double{}, invalidValue("NaN has no double literal")
	case math.IsInf(f, 1):
		return Inf(Plus), nil
	case math.IsInf(f, -1):
		return Inf(Minus), nil
	}
	lit := strconv.FormatFloat(f, 'f', -1, 64)
	if f == 0 && math.Signbit(f) && !strings.HasPrefix(lit, "-") {
		lit = "-" + lit
	}
	return ParseDoubleLiteral(lit)
}

var (
	errBadDouble    = errors.New("bad double value")
	errDoubleRange  = errors.New("double out of range")
	doubleInfPlain  = []byte("inf")
	doubleInfSigned = []byte("-inf")
)

// doubleFromBytes checks p against -?inf | -?[0-9]+(\.[0-9]+)? and derives the
// float value.
func doubleFromBytes(p []byte) (Double, error) {
	if string(p) == string(doubleInfPlain) {
		return Inf(Plus), nil
	}
	if string(p) == string(doubleInfSigned) {
		return Inf(Minus), nil
	}

	var d Double
	rest := p
	if len(rest) > 0 && rest[0] == '-' {
		d.sign = Minus
		rest = rest[1:]
	}
	n := countDigits(rest)
	if n == 0 {
		return Double{}, errBadDouble
	}
	d.intPart = string(rest[:n])
	rest = rest[n:]
	if len(rest) > 0 {
		if rest[0] != '.' {
			return Double{}, errBadDouble
		}
		rest = rest[1:]
		n = countDigits(rest)
		if n == 0 || n != len(rest) {
			return Double{}, errBadDouble
		}
		d.frac = string(rest)
		d.hasFrac = true
	}

	f, err := strconv.ParseFloat(string(p), 64)
	if err != nil {
		return Double{}, errDoubleRange
	}
	d.f = f
	return d, nil
}

func countDigits(p []byte) int {
	n := 0
	for n < len(p) && p[n] >= '0' && p[n] <= '9' {
		n++
	}
	return n
}

func (Double) Kind() Kind                     { return KindDouble }
func (v Double) Attribute() *Attribute        { return v.Attr }
func (v Double) WithAttr(a *Attribute) Double { v.Attr = a; return v }
func (v Double) attach(a *Attribute) Value    { return v.WithAttr(a) }
func (v Double) validate() error              { return validateAttr(v.Attr) }

func (v Double) IsInf() bool { return v.inf }
func (v Double) Sign() Sign  { return v.sign }

// Int returns the integer digits of a finite literal.
func (v Double) Int() string {
	if v.inf {
		return ""
	}
	if v.intPart == "" {
		return "0"
	}
	return v.intPart
}

// Frac returns the fraction digits and whether the literal has a fraction.
func (v Double) Frac() (string, bool) {
	return v.frac, v.hasFrac
}

// Float64 returns the derived IEEE-754 value.
func (v Double) Float64() float64 {
	if v.inf {
		if v.sign == Minus {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return v.f
}

// String returns the literal as written on the wire.
func (v Double) String() string {
	return string(v.appendLiteral(nil))
}

func (v Double) appendLiteral(dst []byte) []byte {
	if v.sign == Minus {
		dst = append(dst, '-')
	}
	if v.inf {
		return append(dst, doubleInfPlain...)
	}
	dst = append(dst, v.Int()...)
	if v.hasFrac {
		dst = append(dst, '.')
		dst = append(dst, v.frac...)
	}
	return dst
}

func (v Double) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeDouble)
	dst = v.appendLiteral(dst)
	return append(dst, CRLF...)
}
