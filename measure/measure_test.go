package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		spec, err := New(Meter{Numerator: 4, Denominator: 4}, []int{4, 4, 4, 4})
		require.NoError(t, err)

		assert.Equal(t, Meter{Numerator: 4, Denominator: 4}, spec.Meter())
		assert.Equal(t, []int{4, 4, 4, 4}, spec.TimeMap())
		assert.Equal(t, 4, spec.Beats())
		assert.Equal(t, 16, spec.Subdivisions())
		assert.False(t, spec.AnchorDownbeat())
	})

	t.Run("anchor downbeat", func(t *testing.T) {
		spec, err := New(Meter{Numerator: 4, Denominator: 4}, []int{4, 4, 4, 4}, WithAnchorDownbeat())
		require.NoError(t, err)

		assert.True(t, spec.AnchorDownbeat())
	})

	t.Run("invalid meter", func(t *testing.T) {
		_, err := New(Meter{Numerator: 0, Denominator: 4}, []int{4})
		var is *ErrInvalidSpec
		require.ErrorAs(t, err, &is)
	})

	t.Run("empty time map", func(t *testing.T) {
		_, err := New(Meter{Numerator: 4, Denominator: 4}, nil)
		var is *ErrInvalidSpec
		require.ErrorAs(t, err, &is)
		assert.Contains(t, is.Error(), "time map")
	})

	t.Run("non-positive subdivision count", func(t *testing.T) {
		_, err := New(Meter{Numerator: 4, Denominator: 4}, []int{4, 0, 4})
		var is *ErrInvalidSpec
		require.ErrorAs(t, err, &is)
	})

	t.Run("time map is copied", func(t *testing.T) {
		timeMap := []int{3, 3}
		spec, err := New(Meter{Numerator: 6, Denominator: 8}, timeMap)
		require.NoError(t, err)

		timeMap[0] = 99
		assert.Equal(t, []int{3, 3}, spec.TimeMap())
	})
}

func TestSpecBeatStarts(t *testing.T) {
	spec, err := New(Meter{Numerator: 7, Denominator: 8}, []int{3, 2, 2})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 5}, spec.BeatStarts())
}

func TestSpecEqual(t *testing.T) {
	mk := func(t *testing.T, optFns ...SpecOption) *Spec {
		t.Helper()
		spec, err := New(Meter{Numerator: 4, Denominator: 4}, []int{4, 4, 4, 4}, optFns...)
		require.NoError(t, err)
		return spec
	}

	t.Run("same measure", func(t *testing.T) {
		assert.True(t, mk(t).Equal(mk(t)))
	})

	t.Run("anchor flag differs", func(t *testing.T) {
		assert.False(t, mk(t).Equal(mk(t, WithAnchorDownbeat())))
	})

	t.Run("time map differs", func(t *testing.T) {
		other, err := New(Meter{Numerator: 4, Denominator: 4}, []int{4, 4, 4, 2})
		require.NoError(t, err)
		assert.False(t, mk(t).Equal(other))
	})

	t.Run("nil", func(t *testing.T) {
		var nilSpec *Spec
		assert.False(t, mk(t).Equal(nil))
		assert.True(t, nilSpec.Equal(nil))
	})
}

func TestSpecString(t *testing.T) {
	spec, err := New(Meter{Numerator: 4, Denominator: 4}, []int{4, 4, 4, 4})
	require.NoError(t, err)

	assert.Equal(t, "4/4[4 4 4 4]", spec.String())
}
