package yaml_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/dynconv/dynobj"
	"github.com/reoring/dynconv/source/yaml"
)

func TestDecode_Scalars(t *testing.T) {
	v, err := yaml.Decode([]byte(`
s: hello
i: 42
neg: -0x10
o: 0o17
f: 1.5
inf: -.inf
b: true
n: ~
huge: 340282366920938463463374607431768211455
bin: !!binary aGk=
quoted: "42"
`))
	require.NoError(t, err)
	d := v.(*dynobj.Dict)

	get := func(k string) any {
		t.Helper()
		v, ok := d.Get(k)
		require.True(t, ok, k)
		return v
	}
	assert.Equal(t, "hello", get("s"))
	assert.Equal(t, int64(42), get("i"))
	assert.Equal(t, int64(-16), get("neg"))
	assert.Equal(t, int64(15), get("o"))
	assert.Equal(t, 1.5, get("f"))
	assert.True(t, math.IsInf(get("inf").(float64), -1))
	assert.Equal(t, true, get("b"))
	assert.Nil(t, get("n"))
	assert.Equal(t, []byte("hi"), get("bin"))
	assert.Equal(t, "42", get("quoted"))

	huge, ok := get("huge").(*big.Int)
	require.True(t, ok)
	assert.Equal(t, "340282366920938463463374607431768211455", huge.String())
}

func TestDecode_OrderAndNonStringKeys(t *testing.T) {
	v, err := yaml.Decode([]byte("z: 1\n1: one\na: 2\n"))
	require.NoError(t, err)
	d := v.(*dynobj.Dict)
	keys, _ := d.Keys()
	require.Equal(t, 3, keys.Len())
	k0, _ := keys.Item(0)
	k1, _ := keys.Item(1)
	assert.Equal(t, "z", k0)
	assert.Equal(t, int64(1), k1)
}

func TestDecode_SetAndMerge(t *testing.T) {
	v, err := yaml.Decode([]byte(`
tags: !!set {a, b}
base: &base {x: 1, y: 2}
derived:
  <<: *base
  y: 3
`))
	require.NoError(t, err)
	d := v.(*dynobj.Dict)

	tags, _ := d.Get("tags")
	s, ok := tags.(*dynobj.Set)
	require.True(t, ok, "got %T", tags)
	assert.True(t, s.Contains("a"))
	assert.Equal(t, 2, s.Len())

	derived, _ := d.Get("derived")
	dd := derived.(*dynobj.Dict)
	y, _ := dd.Get("y")
	x, _ := dd.Get("x")
	assert.Equal(t, int64(3), y)
	assert.Equal(t, int64(1), x)
}

func TestDecodeAll(t *testing.T) {
	docs, err := yaml.DecodeAll([]byte("a: 1\n---\n- 2\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, []any{int64(2)}, docs[1])
}

func TestDecode_MaxDepth(t *testing.T) {
	_, err := yaml.Decode([]byte("a: [[[1]]]"), yaml.Options{MaxDepth: 2})
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	v, err := yaml.Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}
