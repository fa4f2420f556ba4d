package rhythmgo

import (
	"iter"

	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// ResultSet is an ordered collection of scored rhythm vectors. The
// canonical set holds every enumerated vector in generation order;
// filtered sets are index views into the same backing data, so deriving
// one never copies vectors or recomputes metrics.
type ResultSet struct {
	spec    *measure.Spec
	vectors []rhythm.Vector
	sets    []metric.Set
	indices []uint32 // nil means the full canonical order
}

// Spec returns the measure spec the set was generated from.
func (rs *ResultSet) Spec() *measure.Spec { return rs.spec }

// Len returns the number of (vector, metrics) pairs in the set.
func (rs *ResultSet) Len() int {
	if rs.indices != nil {
		return len(rs.indices)
	}
	return len(rs.vectors)
}

// At returns the i-th pair in generation order.
func (rs *ResultSet) At(i int) (rhythm.Vector, metric.Set) {
	if rs.indices != nil {
		i = int(rs.indices[i])
	}
	return rs.vectors[i], rs.sets[i]
}

// All iterates the set's pairs in generation order.
func (rs *ResultSet) All() iter.Seq2[rhythm.Vector, metric.Set] {
	return func(yield func(rhythm.Vector, metric.Set) bool) {
		for i := 0; i < rs.Len(); i++ {
			v, s := rs.At(i)
			if !yield(v, s) {
				return
			}
		}
	}
}

// Vectors returns the set's vectors in generation order. The slice is a
// copy; mutating it does not affect the set.
func (rs *ResultSet) Vectors() []rhythm.Vector {
	out := make([]rhythm.Vector, rs.Len())
	for i := range out {
		out[i], _ = rs.At(i)
	}
	return out
}

// Sets returns the set's metric sets in generation order. The slice is
// a copy; mutating it does not affect the set.
func (rs *ResultSet) Sets() []metric.Set {
	out := make([]metric.Set, rs.Len())
	for i := range out {
		_, out[i] = rs.At(i)
	}
	return out
}
