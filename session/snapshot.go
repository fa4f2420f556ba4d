package session

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/rhythmgo/blobstore"
	"github.com/hupe1980/rhythmgo/codec"
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/resource"
)

// ErrSnapshotMismatch is returned when a snapshot was written for a
// different measure spec than the one it is being loaded for.
var ErrSnapshotMismatch = errors.New("snapshot spec mismatch")

// Snapshot blob layout: magic, format version, compression type, codec
// name, meta length + codec-encoded meta, then compressed blocks of the
// metric matrix (rows in generation order, six float64 columns per row,
// little-endian, density widened to float64).
var snapshotMagic = [4]byte{'R', 'G', 'S', 'N'}

const snapshotVersion = 1

type snapshotMeta struct {
	Meter          measure.Meter `json:"meter"`
	TimeMap        []int         `json:"time_map"`
	AnchorDownbeat bool          `json:"anchor_downbeat,omitempty"`
	Count          uint64        `json:"count"`
}

const snapshotColumns = 6

// SnapshotOptions configures snapshot writes.
type SnapshotOptions struct {
	// Compression selects the block compression. Defaults to ZSTD.
	Compression CompressionType
	// Codec encodes the header meta. Defaults to codec.Default.
	Codec codec.Codec
	// Controller, when set, rate-limits the snapshot's write path
	// against the controller's IO budget.
	Controller *resource.Controller
}

// WriteSnapshot persists the metric matrix of a fully computed session.
// Row i must hold the metrics of the i-th vector in generation order.
func WriteSnapshot(ctx context.Context, store blobstore.BlobStore, name string, spec *measure.Spec, sets []metric.Set, optFns ...func(*SnapshotOptions)) error {
	opts := SnapshotOptions{
		Compression: CompressionZSTD,
		Codec:       codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}

	meta, err := opts.Codec.Marshal(snapshotMeta{
		Meter:          spec.Meter(),
		TimeMap:        spec.TimeMap(),
		AnchorDownbeat: spec.AnchorDownbeat(),
		Count:          uint64(len(sets)),
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot meta: %w", err)
	}

	codecName := opts.Codec.Name()
	if len(codecName) > 255 {
		return fmt.Errorf("codec name %q too long", codecName)
	}

	var buf bytes.Buffer
	buf.Write(snapshotMagic[:])
	buf.WriteByte(snapshotVersion)
	buf.WriteByte(byte(opts.Compression))
	buf.WriteByte(byte(len(codecName)))
	buf.WriteString(codecName)

	var metaLen [4]byte
	binary.LittleEndian.PutUint32(metaLen[:], uint32(len(meta)))
	buf.Write(metaLen[:])
	buf.Write(meta)

	bw := newBlockWriter(resource.NewRateLimitedWriter(ctx, &buf, opts.Controller), opts.Compression)
	row := make([]byte, snapshotColumns*8)
	for _, s := range sets {
		binary.LittleEndian.PutUint64(row[0:], math.Float64bits(float64(s.Density)))
		binary.LittleEndian.PutUint64(row[8:], math.Float64bits(s.NPVI))
		binary.LittleEndian.PutUint64(row[16:], math.Float64bits(s.LHL))
		binary.LittleEndian.PutUint64(row[24:], math.Float64bits(s.PRS))
		binary.LittleEndian.PutUint64(row[32:], math.Float64bits(s.TMC))
		binary.LittleEndian.PutUint64(row[40:], math.Float64bits(s.TOB))
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	return store.Put(ctx, name, buf.Bytes())
}

// ReadSnapshot loads a metric matrix previously written by WriteSnapshot
// and validates it against the spec it is being loaded for.
func ReadSnapshot(ctx context.Context, store blobstore.BlobStore, name string, spec *measure.Spec) ([]metric.Set, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	if len(data) < len(snapshotMagic)+3 || [4]byte(data[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if data[4] != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, data[4])
	}
	compression := CompressionType(data[5])
	nameLen := int(data[6])
	offset := 7 + nameLen
	if len(data) < offset+4 {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformed)
	}
	codecName := string(data[7 : 7+nameLen])

	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	metaLen := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if len(data) < offset+metaLen {
		return nil, fmt.Errorf("%w: truncated meta", ErrMalformed)
	}
	var meta snapshotMeta
	if err := c.Unmarshal(data[offset:offset+metaLen], &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	offset += metaLen

	written, err := specFromMeta(meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !written.Equal(spec) {
		return nil, fmt.Errorf("%w: snapshot is for %s, requested %s", ErrSnapshotMismatch, written, spec)
	}

	payload, err := decompressAll(data, offset, compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if uint64(len(payload)) != meta.Count*snapshotColumns*8 {
		return nil, fmt.Errorf("%w: matrix size %d does not match count %d", ErrMalformed, len(payload), meta.Count)
	}

	sets := make([]metric.Set, meta.Count)
	for i := range sets {
		row := payload[i*snapshotColumns*8:]
		sets[i] = metric.Set{
			Density: int(math.Float64frombits(binary.LittleEndian.Uint64(row[0:]))),
			NPVI:    math.Float64frombits(binary.LittleEndian.Uint64(row[8:])),
			LHL:     math.Float64frombits(binary.LittleEndian.Uint64(row[16:])),
			PRS:     math.Float64frombits(binary.LittleEndian.Uint64(row[24:])),
			TMC:     math.Float64frombits(binary.LittleEndian.Uint64(row[32:])),
			TOB:     math.Float64frombits(binary.LittleEndian.Uint64(row[40:])),
		}
	}
	return sets, nil
}

func specFromMeta(meta snapshotMeta) (*measure.Spec, error) {
	var optFns []measure.SpecOption
	if meta.AnchorDownbeat {
		optFns = append(optFns, measure.WithAnchorDownbeat())
	}
	return measure.New(meta.Meter, meta.TimeMap, optFns...)
}
