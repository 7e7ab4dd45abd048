package dynobj_test

import (
	"math/big"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dynconv/dynobj"
)

func TestDict_InsertionOrder(t *testing.T) {
	d := dynobj.DictOf("z", 1, "a", 2)
	d.Set("m", 3)
	d.Set("z", 4) // replacing keeps the position

	var keys []any
	var values []any
	d.Range(func(k, v any) bool {
		keys = append(keys, k)
		values = append(values, v)
		return true
	})
	assert.Equal(t, []any{"z", "a", "m"}, keys)
	assert.Equal(t, []any{4, 2, 3}, values)

	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestDict_KeysAreSnapshots(t *testing.T) {
	d := dynobj.DictOf("a", 1)
	keys, err := d.Keys()
	require.NoError(t, err)
	d.Set("b", 2)
	assert.Equal(t, 1, keys.Len())
	assert.Equal(t, 2, d.Len())
}

func TestDict_BigIntKeys(t *testing.T) {
	d := dynobj.NewDict()
	d.Set(big.NewInt(10), "x")
	v, ok := d.Get(big.NewInt(10))
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestDict_UnhashableKeys(t *testing.T) {
	d := dynobj.NewDict()
	d.Set([]any{1}, "list")
	v, ok := d.Get([]any{1})
	require.True(t, ok)
	assert.Equal(t, "list", v)
}

func TestDict_Equal(t *testing.T) {
	a := dynobj.DictOf("a", []any{1, dynobj.DictOf("b", big.NewInt(2))})
	b := dynobj.DictOf("a", []any{1, dynobj.DictOf("b", big.NewInt(2))})
	assert.True(t, a.Equal(b))
	b.Set("c", nil)
	assert.False(t, a.Equal(b))
}

func TestDict_MarshalJSON(t *testing.T) {
	d := dynobj.DictOf("z", 1, "a", []any{true, nil}, 3, "three")
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null],"3":"three"}`, string(b))
}

func TestSet(t *testing.T) {
	s := dynobj.NewSet(1, 2, 1)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains(2))
	require.NoError(t, s.Add(3))
	assert.Equal(t, 3, s.Len())
	name, _ := s.TypeName()
	assert.Equal(t, "set", name)

	f := dynobj.NewFrozenSet(1)
	assert.ErrorIs(t, f.Add(2), dynobj.ErrFrozen)
	assert.True(t, f.Frozen())

	first, err := s.Item(0)
	require.NoError(t, err)
	assert.Equal(t, 1, first)
}

func TestTupleAndByteArray(t *testing.T) {
	tup := dynobj.Tuple{"a", 1}
	assert.Equal(t, 2, tup.Len())
	_, err := tup.Item(-1)
	assert.ErrorIs(t, err, dynobj.ErrIndex)
	n, _ := dynobj.TypeName(dynobj.ByteArray("x"))
	assert.Equal(t, "bytearray", n)
}
