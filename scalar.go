package dynconv

import (
	"math/big"
	"strconv"
)

// Width is the bit width of a fixed-width number.
type Width uint8

const (
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// Int is an integer together with the fixed width and signedness it was
// extracted or narrowed to.
type Int struct {
	width  Width
	signed bool
	v      *big.Int
}

// Width returns the bit width.
func (i Int) Width() Width { return i.width }

// Signed reports whether the value sits on the signed ladder.
func (i Int) Signed() bool { return i.signed }

// Big returns a copy of the value.
func (i Int) Big() *big.Int { return new(big.Int).Set(i.v) }

// Int64 returns the value when it fits in an int64.
func (i Int) Int64() (int64, bool) {
	if !i.v.IsInt64() {
		return 0, false
	}
	return i.v.Int64(), true
}

// Uint64 returns the value when it fits in a uint64.
func (i Int) Uint64() (uint64, bool) {
	if !i.v.IsUint64() {
		return 0, false
	}
	return i.v.Uint64(), true
}

func (i Int) String() string { return i.v.String() }

// TypeName returns the Go-style name of the width, for example "uint8" or
// "int128".
func (i Int) TypeName() string { return intTypeName(i.width, i.signed) }

// Interface returns the natural Go value: uint8…uint64, int8…int64, or
// *big.Int for 128-bit widths.
func (i Int) Interface() any {
	if i.signed {
		switch i.width {
		case Width8:
			return int8(i.v.Int64())
		case Width16:
			return int16(i.v.Int64())
		case Width32:
			return int32(i.v.Int64())
		case Width64:
			return i.v.Int64()
		}
		return i.Big()
	}
	switch i.width {
	case Width8:
		return uint8(i.v.Uint64())
	case Width16:
		return uint16(i.v.Uint64())
	case Width32:
		return uint32(i.v.Uint64())
	case Width64:
		return i.v.Uint64()
	}
	return i.Big()
}

// Uint128 is an unsigned 128-bit integer target. big.Int and *big.Int
// targets request the signed 128-bit range.
type Uint128 struct {
	Hi, Lo uint64
}

// Big returns the value as a big.Int.
func (u Uint128) Big() *big.Int {
	x := new(big.Int).SetUint64(u.Hi)
	return x.Lsh(x, 64).Or(x, new(big.Int).SetUint64(u.Lo))
}

func (u Uint128) String() string { return u.Big().String() }

func uint128Of(x *big.Int) Uint128 {
	lo := new(big.Int).And(x, new(big.Int).SetUint64(^uint64(0)))
	return Uint128{Hi: new(big.Int).Rsh(x, 64).Uint64(), Lo: lo.Uint64()}
}

// Float is a floating point number and the width that was requested for it.
type Float struct {
	Width Width
	Value float64
}

// Interface returns float32 for 32-bit requests and float64 otherwise.
func (f Float) Interface() any {
	if f.Width == Width32 {
		return float32(f.Value)
	}
	return f.Value
}

func (f Float) String() string {
	bits := 64
	if f.Width == Width32 {
		bits = 32
	}
	return strconv.FormatFloat(f.Value, 'g', -1, bits)
}

// rung is one step of a narrowing ladder: a width and its inclusive range.
type rung struct {
	width    Width
	min, max *big.Int
}

func (r rung) contains(x *big.Int) bool { return x.Cmp(r.min) >= 0 && x.Cmp(r.max) <= 0 }

func unsignedRung(w Width) rung {
	max := new(big.Int).Lsh(big.NewInt(1), uint(w))
	return rung{width: w, min: new(big.Int), max: max.Sub(max, big.NewInt(1))}
}

func signedRung(w Width) rung {
	half := new(big.Int).Lsh(big.NewInt(1), uint(w)-1)
	return rung{width: w, min: new(big.Int).Neg(half), max: new(big.Int).Sub(half, big.NewInt(1))}
}

// The ladders are tried in ascending order; the first rung that holds the
// value wins. Reordering them changes which width callers observe.
var (
	unsignedLadder = []rung{unsignedRung(Width8), unsignedRung(Width16), unsignedRung(Width32), unsignedRung(Width64), unsignedRung(Width128)}
	signedLadder   = []rung{signedRung(Width8), signedRung(Width16), signedRung(Width32), signedRung(Width64), signedRung(Width128)}
)

// narrow picks the smallest rung of the ladder that holds x.
func narrow(x *big.Int, signed bool) (Int, bool) {
	ladder := unsignedLadder
	if signed {
		ladder = signedLadder
	}
	for _, r := range ladder {
		if r.contains(x) {
			return Int{width: r.width, signed: signed, v: x}, true
		}
	}
	return Int{}, false
}

// rungFor returns the range of the requested width.
func rungFor(w Width, signed bool) (rung, bool) {
	ladder := unsignedLadder
	if signed {
		ladder = signedLadder
	}
	for _, r := range ladder {
		if r.width == w {
			return r, true
		}
	}
	return rung{}, false
}

func intTypeName(w Width, signed bool) string {
	if signed {
		return "int" + strconv.Itoa(int(w))
	}
	return "uint" + strconv.Itoa(int(w))
}
