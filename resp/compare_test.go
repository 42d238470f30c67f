package resp

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// oneOfEachKind lists one value per variant, in kind order.
func oneOfEachKind() []Value {
	return []Value{
		NewArray(Number{Value: 1}),
		NewBigNumber(big.NewInt(-1)),
		BlobError{Code: "ERR", Message: "x"},
		BlobString{Value: "x"},
		Boolean{Value: true},
		Inf(Plus),
		NewMap(Pair{Key: Null{}, Value: Null{}}),
		Null{},
		Number{Value: -100},
		NewSet(Null{}),
		SimpleError{Code: "ERR", Message: "x"},
		SimpleString{Value: "a"},
		VerbatimString{Format: FormatText, Value: "a"},
	}
}

func TestCompareKindOrder(t *testing.T) {
	values := oneOfEachKind()
	for i, a := range values {
		assert.Equal(t, Kind(i), a.Kind())
		for j, b := range values {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			assert.Equal(t, want, Compare(a, b), "%s vs %s", a.Kind(), b.Kind())
		}
	}
}

func TestComparePayload(t *testing.T) {
	tests := []struct {
		name         string
		lower, upper Value
	}{
		{"bool", Boolean{Value: false}, Boolean{Value: true}},
		{"number", Number{Value: -1}, Number{Value: 1}},
		{"big number", NewBigNumber(big.NewInt(-5)), NewBigNumber(big.NewInt(3))},
		{"nil big number is zero", BigNumber{}, NewBigNumber(big.NewInt(1))},
		{"blob string", BlobString{Value: "a"}, BlobString{Value: "b"}},
		{"simple error code first", SimpleError{Code: "A", Message: "z"}, SimpleError{Code: "B", Message: "a"}},
		{"blob error message", BlobError{Code: "ERR", Message: "a"}, BlobError{Code: "ERR", Message: "b"}},
		{"txt before mkd", VerbatimString{Format: FormatText, Value: "z"}, VerbatimString{Format: FormatMarkdown, Value: "a"}},
		{"array prefix", NewArray(Number{Value: 1}), NewArray(Number{Value: 1}, Number{Value: 0})},
		{"array element", NewArray(Number{Value: 1}, Number{Value: 2}), NewArray(Number{Value: 2})},
		{"set", NewSet(Number{Value: 1}), NewSet(Number{Value: 2})},
		{"map key", NewMap(Pair{Key: Number{Value: 1}, Value: Null{}}), NewMap(Pair{Key: Number{Value: 2}, Value: Null{}})},
		{"map value", NewMap(Pair{Key: Null{}, Value: Number{Value: 1}}), NewMap(Pair{Key: Null{}, Value: Number{Value: 2}})},
		{"attribute", Null{}, Null{Attr: NewAttribute()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, -1, Compare(tt.lower, tt.upper))
			assert.Equal(t, 1, Compare(tt.upper, tt.lower))
			assert.Equal(t, 0, Compare(tt.lower, tt.lower))
			assert.False(t, Equal(tt.lower, tt.upper))
		})
	}
}

func TestCompareDouble(t *testing.T) {
	ordered := []Double{
		Inf(Plus),
		Inf(Minus),
		mustDouble(t, "2"),
		mustDouble(t, "10"),
		mustDouble(t, "10.5"),
		mustDouble(t, "10.50"),
		mustDouble(t, "-1"),
	}
	for i := 1; i < len(ordered); i++ {
		assert.Equal(t, -1, Compare(ordered[i-1], ordered[i]), "%s < %s", ordered[i-1], ordered[i])
	}
	assert.True(t, Equal(mustDouble(t, "0.25"), mustDouble(t, "0.25")))
	assert.False(t, Equal(mustDouble(t, "1"), mustDouble(t, "1.0")))
}

func TestCompareNilIsNull(t *testing.T) {
	assert.True(t, Equal(nil, Null{}))
	assert.Equal(t, "_\r\n", string(AppendValue(nil, nil)))
	assert.Equal(t, -1, Compare(NewArray(nil), NewArray(Number{Value: 0})))
}

func TestHashFollowsEquality(t *testing.T) {
	hand := Set{Elements: []Value{SimpleString{Value: "b"}, SimpleString{Value: "a"}, SimpleString{Value: "b"}}}
	built := NewSet(SimpleString{Value: "a"}, SimpleString{Value: "b"})
	assert.True(t, Equal(hand, built))
	assert.Equal(t, Hash(hand), Hash(built))

	m1 := NewMap(Pair{Key: Number{Value: 1}, Value: Null{}}, Pair{Key: Number{Value: 1}, Value: Boolean{Value: true}})
	m2 := NewMap(Pair{Key: Number{Value: 1}, Value: Boolean{Value: true}})
	assert.True(t, Equal(m1, m2))
	assert.Equal(t, Hash(m1), Hash(m2))

	assert.NotEqual(t, Hash(mustDouble(t, "1.5")), Hash(mustDouble(t, "1.50")))
	assert.NotEqual(t, Hash(Null{}), Hash(Null{Attr: NewAttribute()}))
}
