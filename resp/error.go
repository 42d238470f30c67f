package resp

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDiscriminator = errors.New("resp: malformed discriminator")
	ErrInvalidLength          = errors.New("resp: invalid length")
	ErrTruncatedInput         = errors.New("resp: truncated input")
	ErrMissingDelimiter       = errors.New("resp: missing delimiter")
	ErrInvalidEncoding        = errors.New("resp: invalid encoding")
	ErrInvalidCodeFormat      = errors.New("resp: invalid error code format")
	ErrNumericOverflow        = errors.New("resp: numeric overflow")
	ErrUnknownSubtype         = errors.New("resp: unknown verbatim subtype")
	ErrDepthExceeded          = errors.New("resp: nesting depth exceeded")

	// ErrInvalidValue is returned when a directly constructed value cannot be
	// encoded into bytes that parse back to it.
	ErrInvalidValue = errors.New("resp: invalid value")
)

// ParseError describes where and why parsing failed. It unwraps to one of the
// sentinel errors above.
type ParseError struct {
	Err    error
	Type   byte // discriminator of the value being parsed, 0 if unknown
	Offset int  // absolute byte offset of the failure
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Type != 0 {
		msg = fmt.Sprintf("%s in '%c' value", msg, e.Type)
	}
	msg = fmt.Sprintf("%s at byte %d", msg, e.Offset)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func invalidValue(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}
