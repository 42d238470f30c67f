// Package resp is a RESP3 protocol parser and serializer.
// https://github.com/redis/redis-specifications/blob/master/protocol/RESP3.md
package resp

const CRLF string = "\r\n"

// Discriminator bytes.
const (
	TypeArray          byte = '*'
	TypeBigNumber      byte = '('
	TypeBlobError      byte = '!'
	TypeBlobString     byte = '$'
	TypeBoolean        byte = '#'
	TypeDouble         byte = ','
	TypeMap            byte = '%'
	TypeNull           byte = '_'
	TypeNumber         byte = ':'
	TypeSet            byte = '~'
	TypeSimpleError    byte = '-'
	TypeSimpleString   byte = '+'
	TypeVerbatimString byte = '='
	TypeAttribute      byte = '|'
)

// Kind identifies a Value variant. The declaration order is the first key of
// the Value total order.
type Kind uint8

const (
	KindArray Kind = iota
	KindBigNumber
	KindBlobError
	KindBlobString
	KindBoolean
	KindDouble
	KindMap
	KindNull
	KindNumber
	KindSet
	KindSimpleError
	KindSimpleString
	KindVerbatimString
)

var kindNames = [...]string{
	KindArray:          "Array",
	KindBigNumber:      "BigNumber",
	KindBlobError:      "BlobError",
	KindBlobString:     "BlobString",
	KindBoolean:        "Boolean",
	KindDouble:         "Double",
	KindMap:            "Map",
	KindNull:           "Null",
	KindNumber:         "Number",
	KindSet:            "Set",
	KindSimpleError:    "SimpleError",
	KindSimpleString:   "SimpleString",
	KindVerbatimString: "VerbatimString",
}

var kindTypes = [...]byte{
	KindArray:          TypeArray,
	KindBigNumber:      TypeBigNumber,
	KindBlobError:      TypeBlobError,
	KindBlobString:     TypeBlobString,
	KindBoolean:        TypeBoolean,
	KindDouble:         TypeDouble,
	KindMap:            TypeMap,
	KindNull:           TypeNull,
	KindNumber:         TypeNumber,
	KindSet:            TypeSet,
	KindSimpleError:    TypeSimpleError,
	KindSimpleString:   TypeSimpleString,
	KindVerbatimString: TypeVerbatimString,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Type returns the discriminator byte of the variant.
func (k Kind) Type() byte {
	if int(k) < len(kindTypes) {
		return kindTypes[k]
	}
	return 0
}

// Value is one RESP3 value. The set of implementations is closed: Array,
// BigNumber, BlobError, BlobString, Boolean, Double, Map, Null, Number, Set,
// SimpleError, SimpleString and VerbatimString.
type Value interface {
	Kind() Kind
	// Attribute returns the attribute prefix decorating the value, or nil.
	Attribute() *Attribute

	attach(a *Attribute) Value
	appendTo(dst []byte) []byte
	validate() error
}

// Pair is one key/value entry of a Map or Attribute.
type Pair struct {
	Key   Value
	Value Value
}
