package rhythm

import (
	"fmt"

	"github.com/hupe1980/rhythmgo/measure"
)

// DefaultMaxSubdivisions bounds the enumerable pattern space. Twenty
// subdivisions already mean 2^20 (about one million) vectors; anything
// beyond that should be an explicit caller decision.
const DefaultMaxSubdivisions = 20

// ErrLimitExceeded is returned when a spec's pattern space exceeds the
// configured ceiling. Nothing is materialized when this is returned.
type ErrLimitExceeded struct {
	Subdivisions int
	Limit        int
}

func (e *ErrLimitExceeded) Error() string {
	return fmt.Sprintf("pattern space for %d subdivisions exceeds the ceiling of %d", e.Subdivisions, e.Limit)
}

// Enumerator produces the complete pattern space of a measure spec.
type Enumerator struct {
	spec            *measure.Spec
	maxSubdivisions int
}

// EnumeratorOption configures an Enumerator.
type EnumeratorOption func(*Enumerator)

// WithMaxSubdivisions overrides the enumeration ceiling. Values above 63
// are rejected at enumeration time regardless, since vectors are packed
// into a uint64.
func WithMaxSubdivisions(max int) EnumeratorOption {
	return func(e *Enumerator) {
		if max > 0 {
			e.maxSubdivisions = max
		}
	}
}

// NewEnumerator creates an enumerator for the given spec.
func NewEnumerator(spec *measure.Spec, optFns ...EnumeratorOption) *Enumerator {
	e := &Enumerator{
		spec:            spec,
		maxSubdivisions: DefaultMaxSubdivisions,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(e)
		}
	}
	return e
}

// Count returns the number of vectors Enumerate would produce, without
// producing them: 2^N, or 2^(N-1) when the spec anchors the downbeat.
func (e *Enumerator) Count() (uint64, error) {
	n := e.spec.Subdivisions()
	limit := e.maxSubdivisions
	if limit > 63 {
		limit = 63
	}
	if n > limit {
		return 0, &ErrLimitExceeded{Subdivisions: n, Limit: limit}
	}
	count := uint64(1) << uint(n)
	if e.spec.AnchorDownbeat() {
		count >>= 1
	}
	return count, nil
}

// Enumerate materializes the complete pattern space in ascending binary
// order, every vector exactly once. The ceiling is checked before any
// allocation; a failed enumeration returns no partial set.
func (e *Enumerator) Enumerate() ([]Vector, error) {
	count, err := e.Count()
	if err != nil {
		return nil, err
	}

	n := e.spec.Subdivisions()
	var first uint64
	if e.spec.AnchorDownbeat() {
		// Patterns with the downbeat set occupy the upper half of the
		// numeric range and stay in ascending order.
		first = uint64(1) << uint(n-1)
	}

	out := make([]Vector, count)
	for i := uint64(0); i < count; i++ {
		out[i] = Vector{bits: first + i, n: n}
	}
	return out, nil
}
