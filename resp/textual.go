package resp

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Grammar matchers, compiled once at package initialisation and never
// modified afterwards.
var (
	codeRE       = regexp.MustCompile(`^[A-Z]+$`)
	textRE       = regexp.MustCompile(`^[^\r\n]+$`)
	codePrefixRE = regexp.MustCompile(`^[A-Z]+ `)
)

const (
	FormatText     = "txt"
	FormatMarkdown = "mkd"
)

// SimpleString is a short, CRLF-free, UTF-8 string.
type SimpleString struct {
	Value string
	Attr  *Attribute
}

func NewSimpleString(s string) (SimpleString, error) {
	v := SimpleString{Value: s}
	if err := v.validate(); err != nil {
		return SimpleString{}, err
	}
	return v, nil
}

func (SimpleString) Kind() Kind                           { return KindSimpleString }
func (v SimpleString) Attribute() *Attribute              { return v.Attr }
func (v SimpleString) WithAttr(a *Attribute) SimpleString { v.Attr = a; return v }
func (v SimpleString) attach(a *Attribute) Value          { return v.WithAttr(a) }

func (v SimpleString) validate() error {
	if err := validateText("simple string", v.Value); err != nil {
		return err
	}
	return validateAttr(v.Attr)
}

func (v SimpleString) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeSimpleString)
	dst = append(dst, v.Value...)
	return append(dst, CRLF...)
}

// SimpleError is "-CODE message\r\n".
type SimpleError struct {
	Code    string
	Message string
	Attr    *Attribute
}

func NewSimpleError(code, msg string) (SimpleError, error) {
	v := SimpleError{Code: code, Message: msg}
	if err := v.validate(); err != nil {
		return SimpleError{}, err
	}
	return v, nil
}

func (SimpleError) Kind() Kind                          { return KindSimpleError }
func (v SimpleError) Attribute() *Attribute             { return v.Attr }
func (v SimpleError) WithAttr(a *Attribute) SimpleError { v.Attr = a; return v }
func (v SimpleError) attach(a *Attribute) Value         { return v.WithAttr(a) }

func (v SimpleError) Error() string {
	return v.Code + " " + v.Message
}

func (v SimpleError) validate() error {
	if !codeRE.MatchString(v.Code) {
		return invalidValue("error code %q", v.Code)
	}
	if err := validateText("error message", v.Message); err != nil {
		return err
	}
	return validateAttr(v.Attr)
}

func (v SimpleError) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeSimpleError)
	dst = append(dst, v.Code...)
	dst = append(dst, ' ')
	dst = append(dst, v.Message...)
	return append(dst, CRLF...)
}

// BlobString is a length-prefixed binary-safe string.
type BlobString struct {
	Value string
	Attr  *Attribute
}

func (BlobString) Kind() Kind                         { return KindBlobString }
func (v BlobString) Attribute() *Attribute            { return v.Attr }
func (v BlobString) WithAttr(a *Attribute) BlobString { v.Attr = a; return v }
func (v BlobString) attach(a *Attribute) Value        { return v.WithAttr(a) }
func (v BlobString) validate() error                  { return validateAttr(v.Attr) }

func (v BlobString) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	return appendBlob(dst, TypeBlobString, v.Value)
}

// BlobError is a length-prefixed error whose payload is "CODE message". The
// message is binary-safe and may be empty.
type BlobError struct {
	Code    string
	Message string
	Attr    *Attribute
}

func NewBlobError(code, msg string) (BlobError, error) {
	v := BlobError{Code: code, Message: msg}
	if err := v.validate(); err != nil {
		return BlobError{}, err
	}
	return v, nil
}

func (BlobError) Kind() Kind                        { return KindBlobError }
func (v BlobError) Attribute() *Attribute           { return v.Attr }
func (v BlobError) WithAttr(a *Attribute) BlobError { v.Attr = a; return v }
func (v BlobError) attach(a *Attribute) Value       { return v.WithAttr(a) }

func (v BlobError) Error() string {
	return v.Code + " " + v.Message
}

func (v BlobError) validate() error {
	if !codeRE.MatchString(v.Code) {
		return invalidValue("error code %q", v.Code)
	}
	return validateAttr(v.Attr)
}

func (v BlobError) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeBlobError)
	dst = strconv.AppendInt(dst, int64(len(v.Code)+1+len(v.Message)), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, v.Code...)
	dst = append(dst, ' ')
	dst = append(dst, v.Message...)
	return append(dst, CRLF...)
}

// VerbatimString is a blob tagged with a three byte format, FormatText or
// FormatMarkdown. Its wire length counts the "txt:" header.
type VerbatimString struct {
	Format string
	Value  string
	Attr   *Attribute
}

func NewVerbatimString(format, val string) (VerbatimString, error) {
	v := VerbatimString{Format: format, Value: val}
	if err := v.validate(); err != nil {
		return VerbatimString{}, err
	}
	return v, nil
}

func (VerbatimString) Kind() Kind                             { return KindVerbatimString }
func (v VerbatimString) Attribute() *Attribute                { return v.Attr }
func (v VerbatimString) WithAttr(a *Attribute) VerbatimString { v.Attr = a; return v }
func (v VerbatimString) attach(a *Attribute) Value            { return v.WithAttr(a) }

func (v VerbatimString) validate() error {
	if formatRank(v.Format) < 0 {
		return invalidValue("verbatim format %q", v.Format)
	}
	return validateAttr(v.Attr)
}

func (v VerbatimString) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	dst = append(dst, TypeVerbatimString)
	dst = strconv.AppendInt(dst, int64(len(v.Value)+4), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, v.Format...)
	dst = append(dst, ':')
	dst = append(dst, v.Value...)
	return append(dst, CRLF...)
}

// formatRank orders verbatim formats, -1 for unknown ones.
func formatRank(format string) int {
	switch format {
	case FormatText:
		return 0
	case FormatMarkdown:
		return 1
	}
	return -1
}

func appendBlob(dst []byte, tp byte, s string) []byte {
	dst = append(dst, tp)
	dst = strconv.AppendInt(dst, int64(len(s)), 10)
	dst = append(dst, CRLF...)
	dst = append(dst, s...)
	return append(dst, CRLF...)
}

func validateText(what, s string) error {
	if !textRE.MatchString(s) {
		return invalidValue("%s %q must be non-empty without CR or LF", what, s)
	}
	if !utf8.ValidString(s) {
		return invalidValue("%s is not valid UTF-8", what)
	}
	return nil
}
