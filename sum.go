package main

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrOverflow is returned when adding two integers exceeds the 128-bit
// range. The sum is left unchanged.
var ErrOverflow = errors.New("integer overflow")

type sumKind uint8

const (
	kindInteger sumKind = iota
	kindFloat
)

// Sum is the sum of a sequence of numbers that may be integers or floating
// point. It starts as an exact integer and turns into a float, for good,
// once a float is added. The zero value is Integer(0).
type Sum struct {
	kind sumKind
	i    Int128
	f    float64
}

func NewSum() Sum {
	return Sum{}
}

func Integer(n Int128) Sum {
	return Sum{kind: kindInteger, i: n}
}

func Float(f float64) Sum {
	return Sum{kind: kindFloat, f: f}
}

func (s Sum) IsFloat() bool {
	return s.kind == kindFloat
}

// Int returns the integer value. It is only meaningful when !s.IsFloat().
func (s Sum) Int() Int128 {
	return s.i
}

// Float64 returns the value as a float64, widening integers.
func (s Sum) Float64() float64 {
	if s.kind == kindFloat {
		return s.f
	}
	return s.i.Float64()
}

// Add returns s+o. The result is Integer only when both operands are.
func (s Sum) Add(o Sum) (Sum, error) {
	switch {
	case s.kind == kindInteger && o.kind == kindInteger:
		n, overflow := s.i.Add(o.i)
		if overflow {
			return s, ErrOverflow
		}
		return Integer(n), nil
	case s.kind == kindInteger && o.kind == kindFloat:
		return Float(s.i.Float64() + o.f), nil
	case s.kind == kindFloat && o.kind == kindInteger:
		return Float(s.f + o.i.Float64()), nil
	default:
		return Float(s.f + o.f), nil
	}
}

// AddInteger adds n keeping the current kind.
func (s *Sum) AddInteger(n Int128) error {
	r, err := s.Add(Integer(n))
	if err != nil {
		return err
	}
	*s = r
	return nil
}

// AddFloat adds f, turning s into a Float.
func (s *Sum) AddFloat(f float64) {
	// Float operands never fail.
	*s, _ = s.Add(Float(f))
}

// Text formats the sum in base 10 or 16. Base 16 applies to integers only,
// rendered as 0x followed by uppercase digits; floats are always decimal.
func (s Sum) Text(base int) string {
	if s.kind == kindFloat {
		return formatFloat(s.f)
	}
	if base != 16 {
		return s.i.Text(10)
	}
	digits := strings.ToUpper(s.i.Text(16))
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		return "-0x" + rest
	}
	return "0x" + digits
}

func (s Sum) String() string {
	return s.Text(10)
}

// GoString returns the debug form, e.g. Integer(2) or Float(1.0).
func (s Sum) GoString() string {
	if s.kind == kindInteger {
		return "Integer(" + s.i.Text(10) + ")"
	}
	f := formatFloat(s.f)
	if !math.IsInf(s.f, 0) && !math.IsNaN(s.f) && !strings.Contains(f, ".") {
		f += ".0"
	}
	return "Float(" + f + ")"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
