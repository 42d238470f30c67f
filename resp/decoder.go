package resp

import (
	"errors"

	"go.uber.org/zap"
)

// Limits constrains what a Decoder accepts. Zero MaxBlobLen or MaxElements
// disables that check; a non-positive MaxDepth falls back to the default so
// nesting is always bounded.
type Limits struct {
	MaxDepth    int
	MaxBlobLen  int
	MaxElements int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    128,
		MaxBlobLen:  512 * 1024 * 1024,
		MaxElements: 1 << 24,
	}
}

type Decoder struct {
	limits Limits
	logger *zap.Logger
}

type Option func(*Decoder)

func WithLimits(l Limits) Option {
	return func(d *Decoder) {
		if l.MaxDepth <= 0 {
			l.MaxDepth = DefaultLimits().MaxDepth
		}
		d.limits = l
	}
}

// WithLogger makes the decoder log parse failures at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.logger = l
		}
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		limits: DefaultLimits(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) Limits() Limits {
	return d.limits
}

// Parse parses one value from the start of data and returns it with the
// unconsumed rest. On failure the returned rest is data itself.
func (d *Decoder) Parse(data []byte) (Value, []byte, error) {
	return d.parse(data, 0)
}

// ParseAll parses data as a concatenation of complete values.
func (d *Decoder) ParseAll(data []byte) ([]Value, error) {
	p := d.parser(data)
	var values []Value
	for p.pos < len(data) {
		v, err := p.value(0)
		if err != nil {
			d.logFailure(err)
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (d *Decoder) parse(data []byte, want byte) (Value, []byte, error) {
	p := d.parser(data)
	v, err := p.value(want)
	if err != nil {
		d.logFailure(err)
		return nil, data, err
	}
	return v, data[p.pos:], nil
}

func (d *Decoder) parser(data []byte) *parser {
	return &parser{data: data, limits: d.limits}
}

func (d *Decoder) logFailure(err error) {
	var pe *ParseError
	if !errors.As(err, &pe) {
		d.logger.Debug("resp parse failed", zap.Error(err))
		return
	}
	fields := []zap.Field{
		zap.Error(pe.Err),
		zap.Int("offset", pe.Offset),
		zap.String("detail", pe.Detail),
	}
	if pe.Type != 0 {
		fields = append(fields, zap.String("type", string(pe.Type)))
	}
	d.logger.Debug("resp parse failed", fields...)
}

var defaultDecoder = NewDecoder()

// Parse parses one value with the default limits.
func Parse(data []byte) (Value, []byte, error) {
	return defaultDecoder.Parse(data)
}

// ParseAll parses a concatenation of values with the default limits.
func ParseAll(data []byte) ([]Value, error) {
	return defaultDecoder.ParseAll(data)
}

// parseAs parses a value that must have discriminator tp after its optional
// attribute.
func parseAs[T Value](data []byte, tp byte) (T, []byte, error) {
	var zero T
	v, rest, err := defaultDecoder.parse(data, tp)
	if err != nil {
		return zero, data, err
	}
	return v.(T), rest, nil
}

func ParseArray(data []byte) (Array, []byte, error) {
	return parseAs[Array](data, TypeArray)
}

func ParseBigNumber(data []byte) (BigNumber, []byte, error) {
	return parseAs[BigNumber](data, TypeBigNumber)
}

func ParseBlobError(data []byte) (BlobError, []byte, error) {
	return parseAs[BlobError](data, TypeBlobError)
}

func ParseBlobString(data []byte) (BlobString, []byte, error) {
	return parseAs[BlobString](data, TypeBlobString)
}

func ParseBoolean(data []byte) (Boolean, []byte, error) {
	return parseAs[Boolean](data, TypeBoolean)
}

func ParseDouble(data []byte) (Double, []byte, error) {
	return parseAs[Double](data, TypeDouble)
}

func ParseMap(data []byte) (Map, []byte, error) {
	return parseAs[Map](data, TypeMap)
}

func ParseNull(data []byte) (Null, []byte, error) {
	return parseAs[Null](data, TypeNull)
}

func ParseNumber(data []byte) (Number, []byte, error) {
	return parseAs[Number](data, TypeNumber)
}

func ParseSet(data []byte) (Set, []byte, error) {
	return parseAs[Set](data, TypeSet)
}

func ParseSimpleError(data []byte) (SimpleError, []byte, error) {
	return parseAs[SimpleError](data, TypeSimpleError)
}

func ParseSimpleString(data []byte) (SimpleString, []byte, error) {
	return parseAs[SimpleString](data, TypeSimpleString)
}

func ParseVerbatimString(data []byte) (VerbatimString, []byte, error) {
	return parseAs[VerbatimString](data, TypeVerbatimString)
}

// ParseAttribute parses a bare attribute prefix, without the value it
// decorates.
func ParseAttribute(data []byte) (*Attribute, []byte, error) {
	p := defaultDecoder.parser(data)
	if err := p.expect(TypeAttribute); err != nil {
		return nil, data, err
	}
	a, err := p.attribute()
	if err != nil {
		return nil, data, err
	}
	return &a, data[p.pos:], nil
}
