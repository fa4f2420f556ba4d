package filter

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// KeepSet is a set of surviving result indices, backed by a roaring
// bitmap. Filters evaluate each rule into its own keep-set and combine
// them with plain set algebra.
type KeepSet struct {
	rb *roaring.Bitmap
}

// NewKeepSet creates an empty keep-set.
func NewKeepSet() *KeepSet {
	return &KeepSet{rb: roaring.New()}
}

// Add adds a result index to the set.
func (k *KeepSet) Add(i uint32) {
	k.rb.Add(i)
}

// Contains checks if a result index is in the set.
func (k *KeepSet) Contains(i uint32) bool {
	return k.rb.Contains(i)
}

// Cardinality returns the number of kept indices.
func (k *KeepSet) Cardinality() uint64 {
	return k.rb.GetCardinality()
}

// And intersects the set with another in place.
func (k *KeepSet) And(other *KeepSet) {
	k.rb.And(other.rb)
}

// Or unions the set with another in place.
func (k *KeepSet) Or(other *KeepSet) {
	k.rb.Or(other.rb)
}

// Iterator returns the kept indices in ascending order, which is the
// original generation order of the results they refer to.
func (k *KeepSet) Iterator() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := k.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// ToArray materializes the kept indices in ascending order.
func (k *KeepSet) ToArray() []uint32 {
	return k.rb.ToArray()
}
