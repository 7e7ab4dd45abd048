package dynconv

import (
	"math/big"
	"testing"
)

func TestNarrow_FirstFitWins(t *testing.T) {
	cases := []struct {
		in     string
		signed bool
		width  Width
	}{
		{"0", false, Width8},
		{"255", false, Width8},
		{"256", false, Width16},
		{"65536", false, Width32},
		{"4294967296", false, Width64},
		{"18446744073709551616", false, Width128},
		{"-128", true, Width8},
		{"-32769", true, Width32},
		{"-9223372036854775809", true, Width128},
	}
	for _, tc := range cases {
		x, _ := new(big.Int).SetString(tc.in, 10)
		n, ok := narrow(x, tc.signed)
		if !ok {
			t.Fatalf("%s did not fit", tc.in)
		}
		if n.Width() != tc.width || n.Signed() != tc.signed {
			t.Fatalf("%s: want %s, got %s", tc.in, intTypeName(tc.width, tc.signed), n.TypeName())
		}
	}
	tooBig := new(big.Int).Lsh(big.NewInt(1), 128)
	if _, ok := narrow(tooBig, false); ok {
		t.Fatal("2^128 should not fit")
	}
}

func TestRung_Bounds(t *testing.T) {
	r, _ := rungFor(Width8, true)
	if r.min.Int64() != -128 || r.max.Int64() != 127 {
		t.Fatalf("unexpected int8 range %s..%s", r.min, r.max)
	}
	r, _ = rungFor(Width16, false)
	if r.min.Sign() != 0 || r.max.Int64() != 65535 {
		t.Fatalf("unexpected uint16 range %s..%s", r.min, r.max)
	}
	if _, ok := rungFor(Width(7), false); ok {
		t.Fatal("width 7 should not exist")
	}
}

func TestInt_Interface(t *testing.T) {
	n, _ := narrow(big.NewInt(-5), true)
	if v, ok := n.Interface().(int8); !ok || v != -5 {
		t.Fatalf("unexpected %T %v", n.Interface(), n.Interface())
	}
	big128, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	n, _ = narrow(big128, false)
	if _, ok := n.Interface().(*big.Int); !ok {
		t.Fatalf("unexpected %T", n.Interface())
	}
	if _, ok := n.Uint64(); ok {
		t.Fatal("u128 max should not fit uint64")
	}
}

func TestFloat_Interface(t *testing.T) {
	if _, ok := (Float{Width: Width32, Value: 1.5}).Interface().(float32); !ok {
		t.Fatal("expected float32")
	}
	if s := (Float{Width: Width64, Value: 0.1}).String(); s != "0.1" {
		t.Fatalf("unexpected %q", s)
	}
}
