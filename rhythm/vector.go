package rhythm

import (
	"math/bits"
	"strings"
)

// Vector is an immutable onset pattern over n subdivision positions.
// Position 0 (the downbeat) maps to the most significant of the n bits,
// so the uint64 form of a vector orders patterns the same way a human
// reads them left to right.
type Vector struct {
	bits uint64
	n    int
}

// NewVector builds a vector from its packed bit form. Bits above the n-th
// position are masked off.
func NewVector(bits uint64, n int) Vector {
	if n < 64 {
		bits &= (1 << uint(n)) - 1
	}
	return Vector{bits: bits, n: n}
}

// ParseVector builds a vector from its string form, e.g. "1001001000101000".
// Underscore beat delimiters are ignored. Any other character fails.
func ParseVector(s string) (Vector, bool) {
	var b uint64
	n := 0
	for _, c := range s {
		switch c {
		case '_':
			continue
		case '0':
			b <<= 1
		case '1':
			b = b<<1 | 1
		default:
			return Vector{}, false
		}
		n++
	}
	if n == 0 || n > 64 {
		return Vector{}, false
	}
	return Vector{bits: b, n: n}, true
}

// Bits returns the packed integer form of the vector.
func (v Vector) Bits() uint64 { return v.bits }

// Len returns the number of subdivision positions.
func (v Vector) Len() int { return v.n }

// Onset reports whether position i carries an onset.
func (v Vector) Onset(i int) bool {
	return v.bits>>(uint(v.n-1-i))&1 == 1
}

// OnsetCount returns the number of onsets (the density metric).
func (v Vector) OnsetCount() int {
	return bits.OnesCount64(v.bits)
}

// OnsetPositions returns the onset positions in ascending order.
func (v Vector) OnsetPositions() []int {
	out := make([]int, 0, v.OnsetCount())
	for i := 0; i < v.n; i++ {
		if v.Onset(i) {
			out = append(out, i)
		}
	}
	return out
}

// String returns the undelimited binary form, e.g. "101010".
func (v Vector) String() string {
	var b strings.Builder
	b.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.Onset(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Delimited returns the binary form with an underscore between beats,
// e.g. "101_010" for a time map of [3,3].
func (v Vector) Delimited(timeMap []int) string {
	if len(timeMap) <= 1 {
		return v.String()
	}
	var b strings.Builder
	b.Grow(v.n + len(timeMap) - 1)
	pos := 0
	for bi, divs := range timeMap {
		if bi > 0 {
			b.WriteByte('_')
		}
		for i := 0; i < divs && pos < v.n; i++ {
			if v.Onset(pos) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
			pos++
		}
	}
	return b.String()
}
