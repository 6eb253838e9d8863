package main

import (
	"math/big"
	"math/bits"
	"strconv"
)

// Int128 is a two's complement 128-bit signed integer.
type Int128 struct {
	hi int64
	lo uint64
}

var (
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	mask64    = new(big.Int).SetUint64(^uint64(0))
)

func Int128From64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{hi: hi, lo: uint64(v)}
}

// ParseInt128 interprets s in the given base (2 to 36), with an optional
// leading sign. base must not be 0: big.Int only accepts prefixes and
// underscores then, and neither is wanted here.
func ParseInt128(s string, base int) (Int128, error) {
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Int128{}, &strconv.NumError{Func: "ParseInt128", Num: s, Err: strconv.ErrSyntax}
	}
	if b.Cmp(minInt128) < 0 || b.Cmp(maxInt128) > 0 {
		return Int128{}, &strconv.NumError{Func: "ParseInt128", Num: s, Err: strconv.ErrRange}
	}
	return int128FromBig(b), nil
}

func int128FromBig(b *big.Int) Int128 {
	return Int128{
		hi: new(big.Int).Rsh(b, 64).Int64(),
		lo: new(big.Int).And(b, mask64).Uint64(),
	}
}

// Add returns a+b and whether the addition overflowed.
func (a Int128) Add(b Int128) (Int128, bool) {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	uhi, _ := bits.Add64(uint64(a.hi), uint64(b.hi), carry)
	hi := int64(uhi)
	overflow := (a.hi >= 0) == (b.hi >= 0) && (hi >= 0) != (a.hi >= 0)
	return Int128{hi: hi, lo: lo}, overflow
}

func (a Int128) Sign() int {
	switch {
	case a.hi < 0:
		return -1
	case a.hi == 0 && a.lo == 0:
		return 0
	default:
		return 1
	}
}

func (a Int128) Big() *big.Int {
	b := big.NewInt(a.hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(a.lo))
}

// Float64 returns the float64 nearest to a.
func (a Int128) Float64() float64 {
	f, _ := new(big.Float).SetInt(a.Big()).Float64()
	return f
}

// Text returns the lowercase string representation of a in the given base,
// with a leading '-' when negative.
func (a Int128) Text(base int) string {
	if a.hi == 0 {
		return strconv.FormatUint(a.lo, base)
	}
	return a.Big().Text(base)
}

func (a Int128) String() string {
	return a.Text(10)
}
