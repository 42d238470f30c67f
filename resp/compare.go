package resp

import (
	"cmp"
	"hash/fnv"
	"strings"
)

// Compare is the total order over values: variant kind first, then the
// payload, then the attribute (values without one sort first). It returns
// -1, 0 or +1. A nil Value compares as Null. Sets, maps and attributes built
// by hand are compared as if built with their constructors.
func Compare(a, b Value) int {
	a, _ = canonical(a)
	b, _ = canonical(b)
	return compare(a, b)
}

// compare orders values whose sets, maps and attributes are already
// normalised.
func compare(a, b Value) int {
	a, b = orNull(a), orNull(b)
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}

	var c int
	switch x := a.(type) {
	case Array:
		c = compareValues(x.Elements, b.(Array).Elements)
	case BigNumber:
		c = x.int().Cmp(b.(BigNumber).int())
	case BlobError:
		y := b.(BlobError)
		c = compareStrings(x.Code, y.Code, x.Message, y.Message)
	case BlobString:
		c = strings.Compare(x.Value, b.(BlobString).Value)
	case Boolean:
		c = compareBool(x.Value, b.(Boolean).Value)
	case Double:
		c = compareDouble(x, b.(Double))
	case Map:
		c = comparePairs(x.Pairs, b.(Map).Pairs)
	case Null:
	case Number:
		c = cmp.Compare(x.Value, b.(Number).Value)
	case Set:
		c = compareValues(x.Elements, b.(Set).Elements)
	case SimpleError:
		y := b.(SimpleError)
		c = compareStrings(x.Code, y.Code, x.Message, y.Message)
	case SimpleString:
		c = strings.Compare(x.Value, b.(SimpleString).Value)
	case VerbatimString:
		y := b.(VerbatimString)
		if c = cmp.Compare(formatRank(x.Format), formatRank(y.Format)); c == 0 {
			c = compareStrings(x.Format, y.Format, x.Value, y.Value)
		}
	}
	if c != 0 {
		return c
	}
	return compareAttr(a.Attribute(), b.Attribute())
}

// Equal reports structural equality, including attributes.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Hash returns a structural hash: Equal values hash alike.
func Hash(v Value) uint64 {
	h := fnv.New64a()
	h.Write(AppendValue(nil, v))
	return h.Sum64()
}

func orNull(v Value) Value {
	if v == nil {
		return Null{}
	}
	return v
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareStrings(a1, b1, a2, b2 string) int {
	if c := strings.Compare(a1, b1); c != 0 {
		return c
	}
	return strings.Compare(a2, b2)
}

// compareDigits orders digit strings by length then lexically, which is
// numeric order for strings without leading zeros.
func compareDigits(a, b string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareDouble(a, b Double) int {
	// infinities sort before finite literals
	if a.inf != b.inf {
		if a.inf {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.sign, b.sign); c != 0 {
		return c
	}
	if a.inf {
		return 0
	}
	if c := compareDigits(a.Int(), b.Int()); c != 0 {
		return c
	}
	if c := compareBool(a.hasFrac, b.hasFrac); c != 0 {
		return c
	}
	return compareDigits(a.frac, b.frac)
}

func compareValues(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func comparePairs(a, b []Pair) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compare(a[i].Key, b[i].Key); c != 0 {
			return c
		}
		if c := compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareAttr(a, b *Attribute) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return comparePairs(a.Pairs, b.Pairs)
}
