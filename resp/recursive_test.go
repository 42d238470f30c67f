package resp

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const heterogeneous = "" +
	"(12345\r\n" +
	"!10\r\nERR reason\r\n" +
	"$4\r\ntest\r\n" +
	"#f\r\n" +
	",-inf\r\n" +
	"_\r\n" +
	":1234\r\n" +
	"-ERR reason\r\n" +
	"+test\r\n" +
	"=8\r\ntxt:test\r\n"

func heterogeneousValues() []Value {
	return []Value{
		NewBigNumber(big.NewInt(12345)),
		BlobError{Code: "ERR", Message: "reason"},
		BlobString{Value: "test"},
		Boolean{Value: false},
		Inf(Minus),
		Null{},
		Number{Value: 1234},
		SimpleError{Code: "ERR", Message: "reason"},
		SimpleString{Value: "test"},
		VerbatimString{Format: FormatText, Value: "test"},
	}
}

func TestArrayEmpty(t *testing.T) {
	data := []byte("*0\r\n+extra\r\n")
	v, rest, err := ParseArray(data)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 4, len(data)-len(rest))
}

func TestArrayHeterogeneous(t *testing.T) {
	v, rest, err := ParseArray([]byte("*10\r\n" + heterogeneous))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assertValue(t, NewArray(heterogeneousValues()...), v)
	assert.Equal(t, "*10\r\n"+heterogeneous, string(AppendValue(nil, v)))
}

func TestArrayKeepsOrderAndDuplicates(t *testing.T) {
	v, _, err := ParseArray([]byte("*3\r\n:2\r\n:1\r\n:2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []Value{Number{Value: 2}, Number{Value: 1}, Number{Value: 2}}, v.Elements)
}

func TestArrayNested(t *testing.T) {
	v, _, err := ParseArray([]byte("*2\r\n*1\r\n+test\r\n*2\r\n#f\r\n:-1\r\n"))
	require.NoError(t, err)
	want := NewArray(
		NewArray(SimpleString{Value: "test"}),
		NewArray(Boolean{Value: false}, Number{Value: -1}),
	)
	assertValue(t, want, v)
}

func TestSetEmpty(t *testing.T) {
	v, rest, err := ParseSet([]byte("~0\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assertValue(t, NewSet(), v)
}

func TestSetHeterogeneous(t *testing.T) {
	v, _, err := ParseSet([]byte("~10\r\n" + heterogeneous))
	require.NoError(t, err)
	assertValue(t, NewSet(heterogeneousValues()...), v)
	// the sample is already listed in kind order
	assert.Equal(t, "~10\r\n"+heterogeneous, string(AppendValue(nil, v)))
}

func TestSetDeduplicatesAndOrders(t *testing.T) {
	v, _, err := ParseSet([]byte("~4\r\n:2\r\n+b\r\n:1\r\n:2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())
	assert.True(t, v.Contains(Number{Value: 1}))
	assert.False(t, v.Contains(Number{Value: 3}))
	assert.Equal(t, "~3\r\n:1\r\n:2\r\n+b\r\n", string(AppendValue(nil, v)))
}

func TestSetBuiltByHandIsNormalised(t *testing.T) {
	hand := Set{Elements: []Value{Number{Value: 3}, Number{Value: 1}, Number{Value: 3}}}
	assert.Equal(t, "~2\r\n:1\r\n:3\r\n", string(AppendValue(nil, hand)))
	assertValue(t, NewSet(Number{Value: 1}, Number{Value: 3}), hand)
	assert.Equal(t, 2, NewSet(hand.Elements...).Len())
}

func TestMapLastWriteWins(t *testing.T) {
	v, _, err := ParseMap([]byte("%3\r\n+k\r\n:1\r\n+a\r\n_\r\n+k\r\n:2\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, v.Len())

	got, ok := v.Get(SimpleString{Value: "k"})
	require.True(t, ok)
	assert.Equal(t, Number{Value: 2}, got)

	_, ok = v.Get(SimpleString{Value: "missing"})
	assert.False(t, ok)

	assert.Equal(t, "%2\r\n+a\r\n_\r\n+k\r\n:2\r\n", string(AppendValue(nil, v)))
}

func TestMapSerializationIgnoresInsertionOrder(t *testing.T) {
	a := NewMap(
		Pair{Key: SimpleString{Value: "x"}, Value: Number{Value: 1}},
		Pair{Key: Number{Value: 9}, Value: Null{}},
		Pair{Key: NewArray(), Value: Boolean{Value: true}},
	)
	b := NewMap(
		Pair{Key: NewArray(), Value: Boolean{Value: true}},
		Pair{Key: SimpleString{Value: "x"}, Value: Number{Value: 1}},
		Pair{Key: Number{Value: 9}, Value: Null{}},
	)
	assert.Equal(t, AppendValue(nil, a), AppendValue(nil, b))
	assert.Equal(t, "%3\r\n*0\r\n#t\r\n:9\r\n_\r\n+x\r\n:1\r\n", string(AppendValue(nil, a)))
	assert.Equal(t, Hash(a), Hash(b))
}

func TestMapWithContainerKeys(t *testing.T) {
	raw := "%2\r\n*1\r\n:1\r\n+one\r\n~1\r\n:2\r\n+two\r\n"
	v := mustParse(t, raw)
	m := v.(Map)
	got, ok := m.Get(NewSet(Number{Value: 2}))
	require.True(t, ok)
	assert.Equal(t, SimpleString{Value: "two"}, got)
	assert.Equal(t, raw, string(AppendValue(nil, v)))
}

func TestAggregateTruncated(t *testing.T) {
	for _, raw := range []string{
		"*2\r\n:1\r\n",
		"*3\r\n:1\r\n:2\r\n:3",
		"%1\r\n+k\r\n",
		"~1\r\n",
		"*99999999\r\n",
		"%4611686018427387903\r\n",
	} {
		data := []byte(raw)
		_, rest, err := Parse(data)
		assert.ErrorIs(t, err, ErrTruncatedInput, raw)
		assert.Equal(t, data, rest)
	}
}

func TestAggregateBadCount(t *testing.T) {
	for _, raw := range []string{"*-1\r\n", "*x\r\n", "%\r\n", "~1a\r\n_\r\n"} {
		_, _, err := Parse([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidLength, raw)
	}
}

func TestNestingDepthLimit(t *testing.T) {
	raw := strings.Repeat("*1\r\n", 1_000_000) + "_\r\n"
	_, _, err := Parse([]byte(raw))
	assert.ErrorIs(t, err, ErrDepthExceeded)

	d := NewDecoder(WithLimits(Limits{MaxDepth: 2}))
	_, _, err = d.Parse([]byte("*1\r\n%1\r\n_\r\n_\r\n"))
	assert.NoError(t, err)

	_, _, err = d.Parse([]byte("*1\r\n*1\r\n~1\r\n_\r\n"))
	assert.ErrorIs(t, err, ErrDepthExceeded)

	_, _, err = d.Parse([]byte("*1\r\n*1\r\n|0\r\n_\r\n"))
	assert.ErrorIs(t, err, ErrDepthExceeded)
}

func TestDecoderSizeLimits(t *testing.T) {
	d := NewDecoder(WithLimits(Limits{MaxElements: 2, MaxBlobLen: 3}))
	assert.Equal(t, DefaultLimits().MaxDepth, d.Limits().MaxDepth)

	_, _, err := d.Parse([]byte("*2\r\n_\r\n_\r\n"))
	assert.NoError(t, err)

	_, _, err = d.Parse([]byte("*3\r\n_\r\n_\r\n_\r\n"))
	assert.ErrorIs(t, err, ErrInvalidLength)

	// a count the input cannot hold is truncation, whatever the limit
	_, _, err = d.Parse([]byte("*99999999\r\n"))
	assert.ErrorIs(t, err, ErrTruncatedInput)

	_, _, err = d.Parse([]byte("$4\r\nabcd\r\n"))
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, _, err = d.Parse([]byte("=8\r\ntxt:test\r\n"))
	assert.ErrorIs(t, err, ErrInvalidLength)
}

// nestedSets encodes k levels of two-element sets whose elements differ only
// in their last item, so ordering them walks the whole subtree.
func nestedSets(k int) string {
	if k == 0 {
		return "_\r\n"
	}
	inner := nestedSets(k - 1)
	return "~2\r\n*2\r\n" + inner + "#t\r\n*2\r\n" + inner + "_\r\n"
}

func nestedSetValue(k int) Value {
	if k == 0 {
		return Null{}
	}
	inner := nestedSetValue(k - 1)
	return Set{Elements: []Value{NewArray(inner, Null{}), NewArray(inner, Boolean{Value: true})}}
}

func TestNestedSimilarSets(t *testing.T) {
	raw := nestedSets(16)
	start := time.Now()

	v := mustParse(t, raw)
	s := v.(Set)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(s.Elements[1]))
	assert.Equal(t, raw, string(AppendValue(nil, v)))

	hand := nestedSetValue(16)
	assert.True(t, Equal(hand, v))
	assert.Equal(t, Hash(hand), Hash(v))
	assert.True(t, NewSet(hand).Contains(v))

	assert.Less(t, time.Since(start), 10*time.Second)
}
