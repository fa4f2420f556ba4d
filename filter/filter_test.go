package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rhythmgo/filter"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/testutil"
)

func TestNewRange(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, err := filter.NewRange("LHL", 2, 6)
		require.NoError(t, err)

		assert.Equal(t, metric.KindLHL, r.Kind())
		assert.Equal(t, 2.0, r.Min())
		assert.Equal(t, 6.0, r.Max())
	})

	t.Run("unknown metric fails at construction", func(t *testing.T) {
		_, err := filter.NewRange("Swing", 0, 1)

		var um *filter.ErrUnknownMetric
		require.ErrorAs(t, err, &um)
		assert.Equal(t, "Swing", um.Name)
	})
}

func TestRangeRuleMatches(t *testing.T) {
	r, err := filter.NewRange("Density", 2, 4)
	require.NoError(t, err)

	v := testutil.MustVector(t, "1000")

	t.Run("inside", func(t *testing.T) {
		assert.True(t, r.Matches(v, metric.Set{Density: 3}))
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		assert.True(t, r.Matches(v, metric.Set{Density: 2}))
		assert.True(t, r.Matches(v, metric.Set{Density: 4}))
	})

	t.Run("outside", func(t *testing.T) {
		assert.False(t, r.Matches(v, metric.Set{Density: 1}))
		assert.False(t, r.Matches(v, metric.Set{Density: 5}))
	})
}

func TestNewPattern(t *testing.T) {
	spec := testutil.MustSpec(t, 4, 4, 4, 4, 4, 4)

	t.Run("valid", func(t *testing.T) {
		p, err := filter.NewPattern("1XXX0XXXXXXXXXXX", spec)
		require.NoError(t, err)
		assert.Equal(t, "1XXX0XXXXXXXXXXX", p.Pattern())
	})

	t.Run("valid with delimiters", func(t *testing.T) {
		_, err := filter.NewPattern("1XXX_0XXX_XXXX_XXXX", spec)
		require.NoError(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := filter.NewPattern("1XXX", spec)

		var ip *filter.ErrInvalidPattern
		require.ErrorAs(t, err, &ip)
	})

	t.Run("stray character", func(t *testing.T) {
		_, err := filter.NewPattern("1XXX2XXXXXXXXXXX", spec)

		var ip *filter.ErrInvalidPattern
		require.ErrorAs(t, err, &ip)
	})

	t.Run("delimiter off the beat boundary", func(t *testing.T) {
		_, err := filter.NewPattern("1XX_X0XXX_XXXX_XXXX", spec)

		var ip *filter.ErrInvalidPattern
		require.ErrorAs(t, err, &ip)
	})
}

func TestPatternRuleMatches(t *testing.T) {
	spec := testutil.MustSpec(t, 4, 4, 4, 4, 4, 4)

	p, err := filter.NewPattern("1XXXXXXXXXXXXXX0", spec)
	require.NoError(t, err)

	t.Run("onset and rest slots", func(t *testing.T) {
		assert.True(t, p.Matches(testutil.MustVector(t, "1001001000101000"), metric.Set{}))
		assert.False(t, p.Matches(testutil.MustVector(t, "0001001000101000"), metric.Set{}))
		assert.False(t, p.Matches(testutil.MustVector(t, "1001001000101001"), metric.Set{}))
	})

	t.Run("wildcards accept anything", func(t *testing.T) {
		all, err := filter.NewPattern("XXXXXXXXXXXXXXXX", spec)
		require.NoError(t, err)

		assert.True(t, all.Matches(testutil.MustVector(t, "0000000000000000"), metric.Set{}))
		assert.True(t, all.Matches(testutil.MustVector(t, "1111111111111111"), metric.Set{}))
	})
}

func TestRuleNames(t *testing.T) {
	r, err := filter.NewRange("nPVI", 0, 50)
	require.NoError(t, err)
	assert.Contains(t, r.Name(), "nPVI")

	p, err := filter.NewPattern("1XXXXXXXXXXXXXXX", testutil.MustSpec(t, 4, 4, 4, 4, 4, 4))
	require.NoError(t, err)
	assert.Contains(t, p.Name(), "1XXXXXXXXXXXXXXX")
}
