package testutil

import (
	"testing"

	"github.com/hupe1980/rhythmgo/filter"
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// MustSpec builds a measure spec or fails the test. The time map lists
// subdivisions per beat.
func MustSpec(t *testing.T, numerator, denominator int, timeMap ...int) *measure.Spec {
	t.Helper()

	spec, err := measure.New(measure.Meter{Numerator: numerator, Denominator: denominator}, timeMap)
	if err != nil {
		t.Fatalf("invalid spec %d/%d %v: %v", numerator, denominator, timeMap, err)
	}
	return spec
}

// MustAnchoredSpec is MustSpec with the downbeat anchored.
func MustAnchoredSpec(t *testing.T, numerator, denominator int, timeMap ...int) *measure.Spec {
	t.Helper()

	spec, err := measure.New(measure.Meter{Numerator: numerator, Denominator: denominator}, timeMap, measure.WithAnchorDownbeat())
	if err != nil {
		t.Fatalf("invalid spec %d/%d %v: %v", numerator, denominator, timeMap, err)
	}
	return spec
}

// MustVector parses a "1010"-style rhythm string or fails the test.
// Beat delimiters ('_') are ignored.
func MustVector(t *testing.T, s string) rhythm.Vector {
	t.Helper()

	v, ok := rhythm.ParseVector(s)
	if !ok {
		t.Fatalf("invalid rhythm string %q", s)
	}
	return v
}

// BruteForceFilter evaluates a filter pair-by-pair and returns the
// surviving indices in order. Reference implementation for
// cross-checking the bitmap-based Apply.
func BruteForceFilter(vectors []rhythm.Vector, sets []metric.Set, f *filter.Filter) []uint32 {
	var kept []uint32
	for i := range vectors {
		if f.Matches(vectors[i], sets[i]) {
			kept = append(kept, uint32(i))
		}
	}
	return kept
}
