package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rhythmgo/blobstore"
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/resource"
	"github.com/hupe1980/rhythmgo/rhythm"
	"github.com/hupe1980/rhythmgo/testutil"
)

// scoredSets generates the full scored space of the spec in generation
// order, the shape WriteSnapshot persists.
func scoredSets(t *testing.T, spec *measure.Spec) []metric.Set {
	t.Helper()

	vectors, err := rhythm.NewEnumerator(spec).Enumerate()
	require.NoError(t, err)

	sets, err := metric.NewEngine(spec).ComputeAll(context.Background(), vectors, 1)
	require.NoError(t, err)
	return sets
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()

	spec := testutil.MustSpec(t, 2, 4, 4, 4)
	sets := scoredSets(t, spec)

	compressions := map[string]CompressionType{
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	}

	for name, ct := range compressions {
		t.Run(name, func(t *testing.T) {
			store := blobstore.NewMemoryStore()

			err := WriteSnapshot(ctx, store, "study.snapshot", spec, sets, func(o *SnapshotOptions) {
				o.Compression = ct
			})
			require.NoError(t, err)

			loaded, err := ReadSnapshot(ctx, store, "study.snapshot", spec)
			require.NoError(t, err)
			assert.Equal(t, sets, loaded)
		})
	}
}

func TestSnapshotSpecMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	spec := testutil.MustSpec(t, 2, 4, 4, 4)
	require.NoError(t, WriteSnapshot(ctx, store, "s", spec, scoredSets(t, spec)))

	t.Run("different time map", func(t *testing.T) {
		other := testutil.MustSpec(t, 2, 4, 2, 2)

		_, err := ReadSnapshot(ctx, store, "s", other)
		assert.ErrorIs(t, err, ErrSnapshotMismatch)
	})

	t.Run("different anchor flag", func(t *testing.T) {
		anchored := testutil.MustAnchoredSpec(t, 2, 4, 4, 4)

		_, err := ReadSnapshot(ctx, store, "s", anchored)
		assert.ErrorIs(t, err, ErrSnapshotMismatch)
	})
}

func TestSnapshotMissing(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	spec := testutil.MustSpec(t, 2, 4, 4, 4)

	_, err := ReadSnapshot(ctx, store, "missing", spec)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSnapshotMalformed(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	spec := testutil.MustSpec(t, 2, 4, 4, 4)

	t.Run("bad magic", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "bad", []byte("not a snapshot at all")))

		_, err := ReadSnapshot(ctx, store, "bad", spec)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("truncated matrix", func(t *testing.T) {
		require.NoError(t, WriteSnapshot(ctx, store, "t", spec, scoredSets(t, spec)))

		data, err := blobstore.ReadAll(ctx, store, "t")
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "t", data[:len(data)-8]))

		_, err = ReadSnapshot(ctx, store, "t", spec)
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestSnapshotRateLimited(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	spec := testutil.MustSpec(t, 2, 4, 4, 4)
	sets := scoredSets(t, spec)

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
	err := WriteSnapshot(ctx, store, "limited", spec, sets, func(o *SnapshotOptions) {
		o.Controller = rc
	})
	require.NoError(t, err)

	loaded, err := ReadSnapshot(ctx, store, "limited", spec)
	require.NoError(t, err)
	assert.Equal(t, sets, loaded)
}

func TestCompressBlockRoundTrip(t *testing.T) {
	payload := make([]byte, 4096)
	for i := range payload {
		payload[i] = byte(i % 7)
	}

	for name, ct := range map[string]CompressionType{
		"none": CompressionNone,
		"lz4":  CompressionLZ4,
		"zstd": CompressionZSTD,
	} {
		t.Run(name, func(t *testing.T) {
			block, err := compressBlock(payload, ct)
			require.NoError(t, err)

			out, err := decompressAll(block, 0, ct)
			require.NoError(t, err)
			assert.Equal(t, payload, out)
		})
	}
}
