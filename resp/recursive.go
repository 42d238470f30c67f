package resp

import (
	"slices"
	"sort"
	"strconv"
)

// Array is an ordered sequence of values.
type Array struct {
	Elements []Value
	Attr     *Attribute
}

func NewArray(elems ...Value) Array {
	return Array{Elements: elems}
}

func (Array) Kind() Kind                    { return KindArray }
func (v Array) Attribute() *Attribute       { return v.Attr }
func (v Array) WithAttr(a *Attribute) Array { v.Attr = a; return v }
func (v Array) attach(a *Attribute) Value   { return v.WithAttr(a) }
func (v Array) Len() int                    { return len(v.Elements) }

func (v Array) validate() error {
	if err := validateValues(v.Elements); err != nil {
		return err
	}
	return validateAttr(v.Attr)
}

func (v Array) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	return appendValues(dst, TypeArray, v.Elements)
}

// Set is a collection of unique values. NewSet and the parser keep Elements
// sorted in the Value order without duplicates. A Set built by hand is
// normalised when it is compared or encoded; Len and Contains read Elements
// as stored.
type Set struct {
	Elements []Value
	Attr     *Attribute
}

func NewSet(elems ...Value) Set {
	elems, _ = canonicalValues(elems)
	elems, _ = normalizeValues(elems)
	return Set{Elements: elems}
}

func (Set) Kind() Kind                  { return KindSet }
func (v Set) Attribute() *Attribute     { return v.Attr }
func (v Set) WithAttr(a *Attribute) Set { v.Attr = a; return v }
func (v Set) attach(a *Attribute) Value { return v.WithAttr(a) }
func (v Set) Len() int                  { return len(v.Elements) }

// Contains reports whether an element equal to x is in the set.
func (v Set) Contains(x Value) bool {
	x, _ = canonical(x)
	i := sort.Search(len(v.Elements), func(i int) bool { return compare(v.Elements[i], x) >= 0 })
	return i < len(v.Elements) && compare(v.Elements[i], x) == 0
}

func (v Set) validate() error {
	if err := validateValues(v.Elements); err != nil {
		return err
	}
	return validateAttr(v.Attr)
}

func (v Set) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	return appendValues(dst, TypeSet, v.Elements)
}

// Map is a collection of key/value pairs with unique keys, kept in key order.
// When a key repeats, the last pair wins. As with Set, Len and Get expect
// pairs built by NewMap or the parser.
type Map struct {
	Pairs []Pair
	Attr  *Attribute
}

func NewMap(pairs ...Pair) Map {
	pairs, _ = canonicalPairs(pairs)
	pairs, _ = normalizePairs(pairs)
	return Map{Pairs: pairs}
}

func (Map) Kind() Kind                  { return KindMap }
func (v Map) Attribute() *Attribute     { return v.Attr }
func (v Map) WithAttr(a *Attribute) Map { v.Attr = a; return v }
func (v Map) attach(a *Attribute) Value { return v.WithAttr(a) }
func (v Map) Len() int                  { return len(v.Pairs) }

// Get returns the value stored under key.
func (v Map) Get(key Value) (Value, bool) {
	return lookupPair(v.Pairs, key)
}

func (v Map) validate() error {
	if err := validatePairs(v.Pairs); err != nil {
		return err
	}
	return validateAttr(v.Attr)
}

func (v Map) appendTo(dst []byte) []byte {
	dst = appendAttr(dst, v.Attr)
	return appendPairs(dst, TypeMap, v.Pairs)
}

func appendValues(dst []byte, tp byte, elems []Value) []byte {
	dst = appendHeader(dst, tp, len(elems))
	for _, e := range elems {
		dst = orNull(e).appendTo(dst)
	}
	return dst
}

func appendPairs(dst []byte, tp byte, pairs []Pair) []byte {
	dst = appendHeader(dst, tp, len(pairs))
	for _, p := range pairs {
		dst = orNull(p.Key).appendTo(dst)
		dst = orNull(p.Value).appendTo(dst)
	}
	return dst
}

func appendHeader(dst []byte, tp byte, n int) []byte {
	dst = append(dst, tp)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, CRLF...)
}

// normalizeValues sorts elems and drops duplicates. The elements must
// already be canonical. An already normalised slice is returned as is and
// the bool reports whether anything changed.
func normalizeValues(elems []Value) ([]Value, bool) {
	if isStrictlySorted(len(elems), func(i int) Value { return elems[i] }) {
		return elems, false
	}
	out := slices.Clone(elems)
	slices.SortStableFunc(out, compare)
	return slices.CompactFunc(out, func(a, b Value) bool { return compare(a, b) == 0 }), true
}

// normalizePairs sorts pairs by key. Of several pairs with equal keys only
// the last one is kept.
func normalizePairs(pairs []Pair) ([]Pair, bool) {
	if isStrictlySorted(len(pairs), func(i int) Value { return pairs[i].Key }) {
		return pairs, false
	}
	sorted := slices.Clone(pairs)
	slices.SortStableFunc(sorted, func(a, b Pair) int { return compare(a.Key, b.Key) })
	out := sorted[:0]
	for i, p := range sorted {
		if i+1 < len(sorted) && compare(p.Key, sorted[i+1].Key) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out, true
}

func isStrictlySorted(n int, at func(int) Value) bool {
	for i := 1; i < n; i++ {
		if compare(at(i-1), at(i)) >= 0 {
			return false
		}
	}
	return true
}

// canonical returns v with every set, map and attribute inside it
// normalised, bottom up. A value that is already canonical comes back
// unchanged with false.
func canonical(v Value) (Value, bool) {
	if v == nil {
		return nil, false
	}
	attr, changed := canonicalAttr(v.Attribute())
	switch x := v.(type) {
	case Array:
		elems, ok := canonicalValues(x.Elements)
		if !ok && !changed {
			return v, false
		}
		x.Elements, x.Attr = elems, attr
		return x, true
	case Set:
		elems, ok := canonicalValues(x.Elements)
		elems, sorted := normalizeValues(elems)
		if !ok && !sorted && !changed {
			return v, false
		}
		x.Elements, x.Attr = elems, attr
		return x, true
	case Map:
		pairs, ok := canonicalPairs(x.Pairs)
		pairs, sorted := normalizePairs(pairs)
		if !ok && !sorted && !changed {
			return v, false
		}
		x.Pairs, x.Attr = pairs, attr
		return x, true
	}
	if !changed {
		return v, false
	}
	return v.attach(attr), true
}

func canonicalValues(elems []Value) ([]Value, bool) {
	var out []Value
	for i, e := range elems {
		c, ok := canonical(e)
		if !ok {
			continue
		}
		if out == nil {
			out = slices.Clone(elems)
		}
		out[i] = c
	}
	if out == nil {
		return elems, false
	}
	return out, true
}

func canonicalPairs(pairs []Pair) ([]Pair, bool) {
	var out []Pair
	for i, p := range pairs {
		k, kok := canonical(p.Key)
		v, vok := canonical(p.Value)
		if !kok && !vok {
			continue
		}
		if out == nil {
			out = slices.Clone(pairs)
		}
		out[i] = Pair{Key: k, Value: v}
	}
	if out == nil {
		return pairs, false
	}
	return out, true
}

func canonicalAttr(a *Attribute) (*Attribute, bool) {
	if a == nil {
		return nil, false
	}
	pairs, ok := canonicalPairs(a.Pairs)
	pairs, sorted := normalizePairs(pairs)
	if !ok && !sorted {
		return a, false
	}
	return &Attribute{Pairs: pairs}, true
}

func lookupPair(pairs []Pair, key Value) (Value, bool) {
	key, _ = canonical(key)
	i := sort.Search(len(pairs), func(i int) bool { return compare(pairs[i].Key, key) >= 0 })
	if i < len(pairs) && compare(pairs[i].Key, key) == 0 {
		return pairs[i].Value, true
	}
	return nil, false
}

func validateValues(elems []Value) error {
	for _, e := range elems {
		if err := Validate(e); err != nil {
			return err
		}
	}
	return nil
}

func validatePairs(pairs []Pair) error {
	for _, p := range pairs {
		if err := Validate(p.Key); err != nil {
			return err
		}
		if err := Validate(p.Value); err != nil {
			return err
		}
	}
	return nil
}
