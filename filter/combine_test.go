package filter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rhythmgo/filter"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/rhythm"
	"github.com/hupe1980/rhythmgo/testutil"
)

// scoredSpace enumerates all 2^8 patterns of a 2/4 measure and scores them.
func scoredSpace(t *testing.T) ([]rhythm.Vector, []metric.Set) {
	t.Helper()

	engine := metric.NewEngine(testutil.MustSpec(t, 2, 4, 4, 4))

	vectors := make([]rhythm.Vector, 0, 256)
	for b := uint64(0); b < 256; b++ {
		vectors = append(vectors, rhythm.NewVector(b, 8))
	}
	sets, err := engine.ComputeAll(context.Background(), vectors, 1)
	require.NoError(t, err)
	return vectors, sets
}

func TestCombinatorString(t *testing.T) {
	assert.Equal(t, "AND", filter.And.String())
	assert.Equal(t, "OR", filter.Or.String())
}

func TestFilterApply(t *testing.T) {
	vectors, sets := scoredSpace(t)

	low, err := filter.NewRange("Density", 0, 2)
	require.NoError(t, err)
	high, err := filter.NewRange("Density", 2, 8)
	require.NoError(t, err)

	t.Run("and intersects", func(t *testing.T) {
		keep := filter.New(filter.And, low, high).Apply(vectors, sets)

		for i := range vectors {
			want := vectors[i].OnsetCount() == 2
			assert.Equal(t, want, keep.Contains(uint32(i)), "index %d", i)
		}
	})

	t.Run("or unions", func(t *testing.T) {
		keep := filter.New(filter.Or, low, high).Apply(vectors, sets)
		assert.Equal(t, uint64(len(vectors)), keep.Cardinality())
	})

	t.Run("intersection of individual applications", func(t *testing.T) {
		andKeep := filter.New(filter.And, low, high).Apply(vectors, sets)

		a := filter.New(filter.And, low).Apply(vectors, sets)
		b := filter.New(filter.And, high).Apply(vectors, sets)
		a.And(b)

		assert.Equal(t, a.ToArray(), andKeep.ToArray())
	})

	t.Run("union of individual applications", func(t *testing.T) {
		orKeep := filter.New(filter.Or, low, high).Apply(vectors, sets)

		a := filter.New(filter.And, low).Apply(vectors, sets)
		b := filter.New(filter.And, high).Apply(vectors, sets)
		a.Or(b)

		assert.Equal(t, a.ToArray(), orKeep.ToArray())
	})

	t.Run("idempotent", func(t *testing.T) {
		f := filter.New(filter.And, low)
		first := f.Apply(vectors, sets)
		second := f.Apply(vectors, sets)

		assert.Equal(t, first.ToArray(), second.ToArray())
	})

	t.Run("preserves generation order", func(t *testing.T) {
		kept := filter.New(filter.And, high).Apply(vectors, sets).ToArray()
		for i := 1; i < len(kept); i++ {
			assert.Less(t, kept[i-1], kept[i])
		}
	})

	t.Run("no rules", func(t *testing.T) {
		assert.Equal(t, uint64(len(vectors)), filter.New(filter.And).Apply(vectors, sets).Cardinality())
		assert.Equal(t, uint64(0), filter.New(filter.Or).Apply(vectors, sets).Cardinality())
	})
}

func TestFilterApplyAgainstBruteForce(t *testing.T) {
	vectors, sets := scoredSpace(t)

	dense, err := filter.NewRange("Density", 2, 5)
	require.NoError(t, err)
	smooth, err := filter.NewRange("nPVI", 0, 30)
	require.NoError(t, err)
	downbeat, err := filter.NewPattern("1XXXXXXX", testutil.MustSpec(t, 2, 4, 4, 4))
	require.NoError(t, err)

	for _, f := range []*filter.Filter{
		filter.New(filter.And, dense, smooth, downbeat),
		filter.New(filter.Or, dense, smooth, downbeat),
		filter.New(filter.And, downbeat),
		filter.New(filter.Or),
	} {
		t.Run(f.Name(), func(t *testing.T) {
			want := testutil.BruteForceFilter(vectors, sets, f)
			got := f.Apply(vectors, sets).ToArray()

			if len(want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestFilterMatchesAgreesWithApply(t *testing.T) {
	vectors, sets := scoredSpace(t)

	lhl, err := filter.NewRange("LHL", 1, 3)
	require.NoError(t, err)
	tob, err := filter.NewRange("TOB", 1, 8)
	require.NoError(t, err)

	for _, f := range []*filter.Filter{
		filter.New(filter.And, lhl, tob),
		filter.New(filter.Or, lhl, tob),
	} {
		keep := f.Apply(vectors, sets)
		for i := range vectors {
			assert.Equal(t, f.Matches(vectors[i], sets[i]), keep.Contains(uint32(i)), "%s index %d", f.Name(), i)
		}
	}
}

func TestFilterName(t *testing.T) {
	low, err := filter.NewRange("Density", 0, 2)
	require.NoError(t, err)

	name := filter.New(filter.And, low).Name()
	assert.Contains(t, name, "AND")
	assert.Contains(t, name, "Density")
}
