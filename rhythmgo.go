package rhythmgo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/rhythmgo/blobstore"
	"github.com/hupe1980/rhythmgo/catalog"
	"github.com/hupe1980/rhythmgo/filter"
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/rhythm"
	"github.com/hupe1980/rhythmgo/session"
)

// bytes held per scored vector: the packed vector plus its metric set.
const perVectorBytes = 64

func sessionBlobName(name string) string  { return name + ".session" }
func snapshotBlobName(name string) string { return name + ".snapshot" }

// Rhythmgo holds the canonical scored pattern space of one measure spec
// and serves filtered views over it. The space is generated once in New
// (or loaded from a snapshot in Open); filtering never re-enumerates or
// re-scores.
type Rhythmgo struct {
	spec      *measure.Spec
	engine    *metric.Engine
	canonical *ResultSet
	filters   []*filter.Filter
	opts      options
	memBytes  int64
}

// New enumerates the complete pattern space of the given spec, scores
// every vector, and returns the handle over the canonical result set.
// The enumeration ceiling and the memory budget (when a resource
// controller is configured) are enforced before anything is
// materialized; a failed New returns no partial state.
func New(ctx context.Context, spec *measure.Spec, optFns ...Option) (*Rhythmgo, error) {
	opts := applyOptions(optFns)

	if spec == nil {
		return nil, fmt.Errorf("%w: nil measure spec", ErrConfiguration)
	}

	start := time.Now()

	var enumOpts []rhythm.EnumeratorOption
	if opts.maxSubdivisions > 0 {
		enumOpts = append(enumOpts, rhythm.WithMaxSubdivisions(opts.maxSubdivisions))
	}
	enum := rhythm.NewEnumerator(spec, enumOpts...)

	count, err := enum.Count()
	if err != nil {
		err = translateError(err)
		opts.statsCollector.RecordGenerate(0, time.Since(start), err)
		opts.logger.LogGenerate(ctx, spec.String(), 0, time.Since(start), err)
		return nil, err
	}

	memBytes := int64(count) * perVectorBytes
	if opts.controller != nil && !opts.controller.TryAcquireMemory(memBytes) {
		err := fmt.Errorf("%w: %d vectors need %d bytes, over the memory budget", ErrResourceLimit, count, memBytes)
		opts.statsCollector.RecordGenerate(0, time.Since(start), err)
		opts.logger.LogGenerate(ctx, spec.String(), 0, time.Since(start), err)
		return nil, err
	}

	rg, err := build(ctx, spec, enum, nil, opts, memBytes)

	elapsed := time.Since(start)
	opts.statsCollector.RecordGenerate(count, elapsed, err)
	opts.logger.LogGenerate(ctx, spec.String(), count, elapsed, err)
	if err != nil {
		if opts.controller != nil {
			opts.controller.ReleaseMemory(memBytes)
		}
		return nil, err
	}
	return rg, nil
}

// build enumerates and scores. precomputed, when non-nil, must hold one
// metric set per vector in generation order; scoring is skipped then.
func build(ctx context.Context, spec *measure.Spec, enum *rhythm.Enumerator, precomputed []metric.Set, opts options, memBytes int64) (*Rhythmgo, error) {
	vectors, err := enum.Enumerate()
	if err != nil {
		return nil, translateError(err)
	}

	engine := metric.NewEngine(spec, metric.WithController(opts.controller))

	sets := precomputed
	if sets == nil {
		workers := opts.numWorkers
		if workers <= 0 && opts.controller != nil {
			workers = opts.controller.MaxWorkers()
		}
		sets, err = engine.ComputeAll(ctx, vectors, workers)
		if err != nil {
			return nil, translateError(err)
		}
	} else if len(sets) != len(vectors) {
		return nil, fmt.Errorf("%w: snapshot holds %d rows for %d vectors", ErrConfiguration, len(sets), len(vectors))
	}

	return &Rhythmgo{
		spec:   spec,
		engine: engine,
		canonical: &ResultSet{
			spec:    spec,
			vectors: vectors,
			sets:    sets,
		},
		opts:     opts,
		memBytes: memBytes,
	}, nil
}

// Spec returns the measure spec the space was generated from.
func (rg *Rhythmgo) Spec() *measure.Spec { return rg.spec }

// Results returns the canonical result set: every enumerated vector and
// its metrics, in generation order.
func (rg *Rhythmgo) Results() *ResultSet { return rg.canonical }

// Compute scores a single vector against the spec's weight table, for
// callers probing patterns outside a bulk run.
func (rg *Rhythmgo) Compute(v rhythm.Vector) metric.Set { return rg.engine.Compute(v) }

// Filter derives a non-destructive ordered view of the canonical set.
// The same filter applied twice yields the same view; the canonical set
// is never mutated. Applied filters are recorded (deduplicated by
// filter name) so SaveSession can persist them.
func (rg *Rhythmgo) Filter(ctx context.Context, f *filter.Filter) *ResultSet {
	start := time.Now()

	keep := f.Apply(rg.canonical.vectors, rg.canonical.sets)
	view := &ResultSet{
		spec:    rg.spec,
		vectors: rg.canonical.vectors,
		sets:    rg.canonical.sets,
		indices: keep.ToArray(),
	}

	rg.recordFilter(f)

	rg.opts.statsCollector.RecordFilter(view.Len(), rg.canonical.Len(), time.Since(start))
	rg.opts.logger.LogFilter(ctx, f.Name(), view.Len(), rg.canonical.Len())
	return view
}

// Filters returns the filters recorded against this session, in
// application order.
func (rg *Rhythmgo) Filters() []*filter.Filter {
	return append([]*filter.Filter(nil), rg.filters...)
}

func (rg *Rhythmgo) recordFilter(f *filter.Filter) {
	name := f.Name()
	for _, existing := range rg.filters {
		if existing.Name() == name {
			return
		}
	}
	rg.filters = append(rg.filters, f)
}

// SaveSession persists the measure definition and the recorded filters
// under the given name, plus (unless disabled via WithoutSnapshot) a
// compressed snapshot of the metric matrix so Open can skip the
// recompute.
func (rg *Rhythmgo) SaveSession(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()
	err := rg.saveSession(ctx, store, name)
	rg.opts.statsCollector.RecordSessionSave(time.Since(start), err)
	rg.opts.logger.LogSession(ctx, "save", name, err)
	return err
}

func (rg *Rhythmgo) saveSession(ctx context.Context, store blobstore.BlobStore, name string) error {
	sess := session.FromSpec(rg.spec)
	for _, f := range rg.filters {
		if err := sess.AddFilter(f); err != nil {
			return translateError(err)
		}
	}

	if err := session.Save(ctx, store, sessionBlobName(name), sess, rg.opts.codec); err != nil {
		return translateError(err)
	}

	if rg.opts.snapshotOnSave {
		err := session.WriteSnapshot(ctx, store, snapshotBlobName(name), rg.spec, rg.canonical.sets, func(o *session.SnapshotOptions) {
			o.Compression = rg.opts.compression
			o.Codec = rg.opts.codec
			o.Controller = rg.opts.controller
		})
		if err != nil {
			return translateError(err)
		}
		rg.opts.logger.LogSnapshot(ctx, "write", snapshotBlobName(name), nil)
	}

	return rg.registerSession(ctx, name)
}

// registerSession upserts the catalog entry for a saved session. A lost
// revision race is retried against the latest stored revision.
func (rg *Rhythmgo) registerSession(ctx context.Context, name string) error {
	if rg.opts.catalog == nil {
		return nil
	}

	for attempt := 0; attempt < 3; attempt++ {
		var revision uint64
		existing, err := rg.opts.catalog.Get(ctx, name)
		switch {
		case err == nil:
			revision = existing.Revision
		case errors.Is(err, catalog.ErrNotFound):
		default:
			return err
		}

		err = rg.opts.catalog.Put(ctx, catalog.Entry{
			Name:         name,
			Meter:        rg.spec.Meter().String(),
			Subdivisions: rg.spec.Subdivisions(),
			VectorCount:  uint64(rg.canonical.Len()),
			Filters:      len(rg.filters),
			Revision:     revision,
			UpdatedAt:    time.Now().UTC(),
		})
		if !errors.Is(err, catalog.ErrConcurrentModification) {
			return err
		}
	}
	return catalog.ErrConcurrentModification
}

// Open loads a saved session and rebuilds its scored space. When a
// snapshot was saved alongside the session it is reused; otherwise the
// space regenerates, which is deterministic and therefore equivalent.
// The session's recorded filters are restored and available via
// Filters; views are not re-derived automatically.
func Open(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Rhythmgo, error) {
	opts := applyOptions(optFns)

	start := time.Now()
	rg, err := open(ctx, store, name, opts)
	opts.statsCollector.RecordSessionLoad(time.Since(start), err)
	opts.logger.LogSession(ctx, "load", name, err)
	return rg, err
}

func open(ctx context.Context, store blobstore.BlobStore, name string, opts options) (*Rhythmgo, error) {
	sess, err := session.Load(ctx, store, sessionBlobName(name))
	if err != nil {
		return nil, translateError(err)
	}

	spec, err := sess.Spec()
	if err != nil {
		return nil, translateError(err)
	}

	var enumOpts []rhythm.EnumeratorOption
	if opts.maxSubdivisions > 0 {
		enumOpts = append(enumOpts, rhythm.WithMaxSubdivisions(opts.maxSubdivisions))
	}
	enum := rhythm.NewEnumerator(spec, enumOpts...)

	count, err := enum.Count()
	if err != nil {
		return nil, translateError(err)
	}

	memBytes := int64(count) * perVectorBytes
	if opts.controller != nil && !opts.controller.TryAcquireMemory(memBytes) {
		return nil, fmt.Errorf("%w: %d vectors need %d bytes, over the memory budget", ErrResourceLimit, count, memBytes)
	}

	sets, err := session.ReadSnapshot(ctx, store, snapshotBlobName(name), spec)
	switch {
	case err == nil:
		opts.logger.LogSnapshot(ctx, "read", snapshotBlobName(name), nil)
	case errors.Is(err, blobstore.ErrNotFound):
		sets = nil // regenerate below
	case errors.Is(err, session.ErrSnapshotMismatch):
		sets = nil
	default:
		if opts.controller != nil {
			opts.controller.ReleaseMemory(memBytes)
		}
		return nil, translateError(err)
	}

	rg, err := build(ctx, spec, enum, sets, opts, memBytes)
	if err != nil {
		if opts.controller != nil {
			opts.controller.ReleaseMemory(memBytes)
		}
		return nil, err
	}

	filters, err := sess.BuildFilters(spec)
	if err != nil {
		if opts.controller != nil {
			opts.controller.ReleaseMemory(memBytes)
		}
		return nil, translateError(err)
	}
	rg.filters = filters

	return rg, nil
}

// Close releases the memory reserved against the resource controller.
// Safe to call when no controller is configured.
func (rg *Rhythmgo) Close() error {
	if rg.opts.controller != nil && rg.memBytes > 0 {
		rg.opts.controller.ReleaseMemory(rg.memBytes)
		rg.memBytes = 0
	}
	return nil
}
