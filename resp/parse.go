package resp

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"unicode/utf8"
)

// parser is a cursor over one complete input buffer. Every method starts at
// p.pos; failed parses report the absolute offset of the failure and the
// caller discards the cursor.
type parser struct {
	data   []byte
	pos    int
	depth  int
	limits Limits
}

// Minimum encoded sizes, used to reject counts the input cannot hold before
// allocating for them.
const (
	minValueLen = 3 // "_\r\n"
	minPairLen  = 2 * minValueLen
)

func (p *parser) fail(err error, tp byte, at int, format string, args ...any) error {
	return &ParseError{Err: err, Type: tp, Offset: at, Detail: fmt.Sprintf(format, args...)}
}

// expect checks that the next byte is the discriminator want.
func (p *parser) expect(want byte) error {
	if p.pos >= len(p.data) {
		return p.fail(ErrTruncatedInput, 0, p.pos, "expected a value")
	}
	if tp := p.data[p.pos]; tp != want {
		return p.fail(ErrMalformedDiscriminator, 0, p.pos, "expected '%c', got %q", want, tp)
	}
	return nil
}

// value parses an optional attribute followed by one value. A non-zero want
// restricts the value to that discriminator.
func (p *parser) value(want byte) (Value, error) {
	var attr *Attribute
	if p.pos < len(p.data) && p.data[p.pos] == TypeAttribute {
		a, err := p.attribute()
		if err != nil {
			return nil, err
		}
		attr = &a
		if p.pos < len(p.data) && p.data[p.pos] == TypeAttribute {
			return nil, p.fail(ErrMalformedDiscriminator, TypeAttribute, p.pos, "attribute must be followed by a value")
		}
	}

	if p.pos >= len(p.data) {
		return nil, p.fail(ErrTruncatedInput, 0, p.pos, "expected a value")
	}
	if want != 0 {
		if err := p.expect(want); err != nil {
			return nil, err
		}
	}

	v, err := p.dispatch(p.data[p.pos])
	if err != nil {
		return nil, err
	}
	if attr != nil {
		v = v.attach(attr)
	}
	return v, nil
}

func (p *parser) dispatch(tp byte) (Value, error) {
	switch tp {
	case TypeArray:
		return p.array()
	case TypeBigNumber:
		return p.bigNumber()
	case TypeBlobError:
		return p.blobError()
	case TypeBlobString:
		return p.blobString()
	case TypeBoolean:
		return p.boolean()
	case TypeDouble:
		return p.double()
	case TypeMap:
		return p.mapValue()
	case TypeNull:
		return p.null()
	case TypeNumber:
		return p.number()
	case TypeSet:
		return p.set()
	case TypeSimpleError:
		return p.simpleError()
	case TypeSimpleString:
		return p.simpleString()
	case TypeVerbatimString:
		return p.verbatimString()
	}
	return nil, p.fail(ErrMalformedDiscriminator, 0, p.pos, "got %q as type byte", tp)
}

func (p *parser) null() (Value, error) {
	p.pos++
	if err := p.crlf(TypeNull); err != nil {
		return nil, err
	}
	return Null{}, nil
}

func (p *parser) boolean() (Value, error) {
	p.pos++
	if p.pos >= len(p.data) {
		return nil, p.fail(ErrTruncatedInput, TypeBoolean, p.pos, "expected t or f")
	}
	var v bool
	switch c := p.data[p.pos]; c {
	case 't':
		v = true
	case 'f':
	default:
		return nil, p.fail(ErrInvalidEncoding, TypeBoolean, p.pos, "bad bool value %q", c)
	}
	p.pos++
	if err := p.crlf(TypeBoolean); err != nil {
		return nil, err
	}
	return Boolean{Value: v}, nil
}

func (p *parser) number() (Value, error) {
	p.pos++
	at := p.pos
	line, err := p.line(TypeNumber)
	if err != nil {
		return nil, err
	}
	if !isInteger(line) {
		return nil, p.fail(ErrInvalidEncoding, TypeNumber, at, "bad integer value %q", line)
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return nil, p.fail(ErrNumericOverflow, TypeNumber, at, "%s does not fit in 64 bits", line)
	}
	return Number{Value: n}, nil
}

func (p *parser) bigNumber() (Value, error) {
	p.pos++
	at := p.pos
	line, err := p.line(TypeBigNumber)
	if err != nil {
		return nil, err
	}
	if !isInteger(line) {
		return nil, p.fail(ErrInvalidEncoding, TypeBigNumber, at, "bad bignumber value %q", line)
	}
	n, ok := new(big.Int).SetString(string(line), 10)
	if !ok {
		return nil, p.fail(ErrInvalidEncoding, TypeBigNumber, at, "bad bignumber value %q", line)
	}
	return BigNumber{Value: n}, nil
}

func (p *parser) double() (Value, error) {
	p.pos++
	at := p.pos
	line, err := p.line(TypeDouble)
	if err != nil {
		return nil, err
	}
	d, err := doubleFromBytes(line)
	switch {
	case errors.Is(err, errDoubleRange):
		return nil, p.fail(ErrNumericOverflow, TypeDouble, at, "%s is out of float64 range", line)
	case err != nil:
		return nil, p.fail(ErrInvalidEncoding, TypeDouble, at, "bad double value %q", line)
	}
	return d, nil
}

func (p *parser) simpleString() (Value, error) {
	p.pos++
	at := p.pos
	line, err := p.line(TypeSimpleString)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, p.fail(ErrInvalidEncoding, TypeSimpleString, at, "empty simple string")
	}
	if !utf8.Valid(line) {
		return nil, p.fail(ErrInvalidEncoding, TypeSimpleString, at, "simple string is not valid UTF-8")
	}
	return SimpleString{Value: string(line)}, nil
}

func (p *parser) simpleError() (Value, error) {
	p.pos++
	at := p.pos
	line, err := p.line(TypeSimpleError)
	if err != nil {
		return nil, err
	}
	loc := codePrefixRE.FindIndex(line)
	if loc == nil {
		return nil, p.fail(ErrInvalidCodeFormat, TypeSimpleError, at, "%q does not start with an uppercase code and a space", line)
	}
	msg := line[loc[1]:]
	if len(msg) == 0 {
		return nil, p.fail(ErrInvalidEncoding, TypeSimpleError, at+loc[1], "empty error message")
	}
	if !utf8.Valid(msg) {
		return nil, p.fail(ErrInvalidEncoding, TypeSimpleError, at+loc[1], "error message is not valid UTF-8")
	}
	return SimpleError{Code: string(line[:loc[1]-1]), Message: string(msg)}, nil
}

func (p *parser) blobString() (Value, error) {
	body, err := p.blob(TypeBlobString)
	if err != nil {
		return nil, err
	}
	return BlobString{Value: string(body)}, nil
}

func (p *parser) blobError() (Value, error) {
	start := p.pos
	body, err := p.blob(TypeBlobError)
	if err != nil {
		return nil, err
	}
	loc := codePrefixRE.FindIndex(body)
	if loc == nil {
		return nil, p.fail(ErrInvalidCodeFormat, TypeBlobError, start, "payload does not start with an uppercase code and a space")
	}
	return BlobError{Code: string(body[:loc[1]-1]), Message: string(body[loc[1]:])}, nil
}

func (p *parser) verbatimString() (Value, error) {
	start := p.pos
	body, err := p.blob(TypeVerbatimString)
	if err != nil {
		return nil, err
	}
	if len(body) < 4 {
		return nil, p.fail(ErrInvalidLength, TypeVerbatimString, start, "length %d is shorter than the format header", len(body))
	}
	format := string(body[:3])
	if body[3] != ':' || formatRank(format) < 0 {
		return nil, p.fail(ErrUnknownSubtype, TypeVerbatimString, p.pos-len(body)-2, "%q", body[:4])
	}
	return VerbatimString{Format: format, Value: string(body[4:])}, nil
}

func (p *parser) array() (Value, error) {
	n, err := p.count(TypeArray, minValueLen)
	if err != nil {
		return nil, err
	}
	if err := p.enter(TypeArray); err != nil {
		return nil, err
	}
	defer p.leave()

	elems, err := p.values(n)
	if err != nil {
		return nil, err
	}
	return Array{Elements: elems}, nil
}

func (p *parser) set() (Value, error) {
	n, err := p.count(TypeSet, minValueLen)
	if err != nil {
		return nil, err
	}
	if err := p.enter(TypeSet); err != nil {
		return nil, err
	}
	defer p.leave()

	elems, err := p.values(n)
	if err != nil {
		return nil, err
	}
	elems, _ = normalizeValues(elems)
	return Set{Elements: elems}, nil
}

func (p *parser) mapValue() (Value, error) {
	pairs, err := p.pairs(TypeMap)
	if err != nil {
		return nil, err
	}
	return Map{Pairs: pairs}, nil
}

func (p *parser) attribute() (Attribute, error) {
	pairs, err := p.pairs(TypeAttribute)
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{Pairs: pairs}, nil
}

func (p *parser) pairs(tp byte) ([]Pair, error) {
	n, err := p.count(tp, minPairLen)
	if err != nil {
		return nil, err
	}
	if err := p.enter(tp); err != nil {
		return nil, err
	}
	defer p.leave()

	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		k, err := p.value(0)
		if err != nil {
			return nil, err
		}
		v, err := p.value(0)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	pairs, _ = normalizePairs(pairs)
	return pairs, nil
}

func (p *parser) values(n int) ([]Value, error) {
	elems := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		v, err := p.value(0)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return elems, nil
}

func (p *parser) enter(tp byte) error {
	p.depth++
	if p.depth > p.limits.MaxDepth {
		return p.fail(ErrDepthExceeded, tp, p.pos, "more than %d nested levels", p.limits.MaxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// blob reads "<tp><len>\r\n<len bytes>\r\n" and returns the payload.
func (p *parser) blob(tp byte) ([]byte, error) {
	p.pos++
	at := p.pos
	n, err := p.length(tp)
	if err != nil {
		return nil, err
	}
	if p.limits.MaxBlobLen > 0 && n > p.limits.MaxBlobLen {
		return nil, p.fail(ErrInvalidLength, tp, at, "length %d exceeds limit %d", n, p.limits.MaxBlobLen)
	}
	if n > len(p.data)-p.pos {
		return nil, p.fail(ErrTruncatedInput, tp, len(p.data), "declared %d bytes, %d remain", n, len(p.data)-p.pos)
	}
	body := p.data[p.pos : p.pos+n]
	p.pos += n
	if err := p.crlf(tp); err != nil {
		return nil, err
	}
	return body, nil
}

// count reads an aggregate header and checks the remaining input can hold
// that many items of at least minLen bytes each. That check comes before
// MaxElements, so a count the input cannot hold is always truncation.
func (p *parser) count(tp byte, minLen int) (int, error) {
	p.pos++
	at := p.pos
	n, err := p.length(tp)
	if err != nil {
		return 0, err
	}
	if remain := len(p.data) - p.pos; n > remain/minLen {
		return 0, p.fail(ErrTruncatedInput, tp, len(p.data), "declared %d items, only %d bytes remain", n, remain)
	}
	if p.limits.MaxElements > 0 && n > p.limits.MaxElements {
		return 0, p.fail(ErrInvalidLength, tp, at, "count %d exceeds limit %d", n, p.limits.MaxElements)
	}
	return n, nil
}

// length reads a non-negative decimal terminated by CRLF.
func (p *parser) length(tp byte) (int, error) {
	at := p.pos
	line, err := p.line(tp)
	if err != nil {
		return 0, err
	}
	if len(line) == 0 {
		return 0, p.fail(ErrInvalidLength, tp, at, "empty length")
	}
	n := 0
	for _, c := range line {
		if c < '0' || c > '9' {
			return 0, p.fail(ErrInvalidLength, tp, at, "bad length %q", line)
		}
		d := int(c - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, p.fail(ErrInvalidLength, tp, at, "length %q overflows", line)
		}
		n = n*10 + d
	}
	return n, nil
}

// line returns the bytes up to the next CRLF and moves past it. A lone CR or
// LF is a delimiter error; running out of input first is truncation.
func (p *parser) line(tp byte) ([]byte, error) {
	for i := p.pos; i < len(p.data); i++ {
		switch p.data[i] {
		case '\r':
			if i+1 >= len(p.data) {
				return nil, p.fail(ErrTruncatedInput, tp, len(p.data), "expected LF after CR")
			}
			if p.data[i+1] != '\n' {
				return nil, p.fail(ErrMissingDelimiter, tp, i, "CR not followed by LF")
			}
			line := p.data[p.pos:i]
			p.pos = i + 2
			return line, nil
		case '\n':
			return nil, p.fail(ErrMissingDelimiter, tp, i, "LF without CR")
		}
	}
	return nil, p.fail(ErrTruncatedInput, tp, len(p.data), "expected CRLF")
}

// crlf requires the delimiter at the cursor.
func (p *parser) crlf(tp byte) error {
	rest := p.data[p.pos:]
	switch {
	case len(rest) >= 2 && rest[0] == '\r' && rest[1] == '\n':
		p.pos += 2
		return nil
	case len(rest) == 0 || (len(rest) == 1 && rest[0] == '\r'):
		return p.fail(ErrTruncatedInput, tp, len(p.data), "expected CRLF")
	}
	return p.fail(ErrMissingDelimiter, tp, p.pos, "expected CRLF, got %q", rest[:min(len(rest), 2)])
}

// isInteger matches -?[0-9]+.
func isInteger(p []byte) bool {
	if len(p) > 0 && p[0] == '-' {
		p = p[1:]
	}
	return len(p) > 0 && countDigits(p) == len(p)
}
