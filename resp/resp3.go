package resp

import (
	"fmt"
	"io"
)

// AppendValue appends the wire encoding of v to dst. Maps, sets and
// attributes are written in the Value order, so equal values always encode
// to the same bytes. A nil Value encodes as Null.
func AppendValue(dst []byte, v Value) []byte {
	v, _ = canonical(v)
	return orNull(v).appendTo(dst)
}

// Validate reports whether v, built by hand, encodes to bytes that parse back
// to v. Values produced by the parser are always valid.
func Validate(v Value) error {
	if v == nil {
		return invalidValue("nil value")
	}
	return v.validate()
}

// Serialize validates v and returns its wire encoding.
func Serialize(v Value) ([]byte, error) {
	if err := Validate(v); err != nil {
		return nil, err
	}
	return AppendValue(nil, v), nil
}

// Encoder writes values to an output sink.
type Encoder struct {
	w   io.Writer
	buf []byte
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes one value. A failing sink is reported as is; the encoder
// never retries.
func (e *Encoder) Encode(v Value) error {
	if err := Validate(v); err != nil {
		return err
	}
	e.buf = AppendValue(e.buf[:0], v)
	if _, err := e.w.Write(e.buf); err != nil {
		return fmt.Errorf("resp: write: %w", err)
	}
	return nil
}
