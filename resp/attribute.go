package resp

// Attribute is the out-of-band key/value metadata that may prefix any value
// on the wire ("|<count>\r\n" followed by count pairs). It is not a Value of
// its own: the parser attaches it to the value it precedes.
type Attribute struct {
	Pairs []Pair
}

// NewAttribute returns an attribute holding pairs in key order, last pair
// winning on repeated keys.
func NewAttribute(pairs ...Pair) *Attribute {
	pairs, _ = canonicalPairs(pairs)
	pairs, _ = normalizePairs(pairs)
	return &Attribute{Pairs: pairs}
}

func (a *Attribute) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Pairs)
}

// Get returns the value stored under key.
func (a *Attribute) Get(key Value) (Value, bool) {
	if a == nil {
		return nil, false
	}
	return lookupPair(a.Pairs, key)
}

func (a *Attribute) appendTo(dst []byte) []byte {
	return appendPairs(dst, TypeAttribute, a.Pairs)
}

func appendAttr(dst []byte, a *Attribute) []byte {
	if a == nil {
		return dst
	}
	return a.appendTo(dst)
}

func validateAttr(a *Attribute) error {
	if a == nil {
		return nil
	}
	return validatePairs(a.Pairs)
}
