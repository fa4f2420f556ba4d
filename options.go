package rhythmgo

import (
	"log/slog"

	"github.com/hupe1980/rhythmgo/catalog"
	"github.com/hupe1980/rhythmgo/codec"
	"github.com/hupe1980/rhythmgo/resource"
	"github.com/hupe1980/rhythmgo/session"
)

type options struct {
	codec           codec.Codec
	numWorkers      int
	maxSubdivisions int
	compression     session.CompressionType
	snapshotOnSave  bool
	statsCollector  StatsCollector
	logger          *Logger
	controller      *resource.Controller
	catalog         catalog.Catalog
}

// Option configures Rhythmgo constructor/open behavior.
//
// Today options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithCodec configures the codec used for session blobs.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithNumWorkers configures the number of goroutines scoring vectors in
// parallel. Each vector's metric set is a pure function of the vector
// and the shared weight table, so workers never contend; results land
// in pre-allocated slots and canonical order holds by construction.
//
// If numWorkers <= 1, scoring runs on the calling goroutine (default).
func WithNumWorkers(numWorkers int) Option {
	return func(o *options) {
		o.numWorkers = numWorkers
	}
}

// WithMaxSubdivisions overrides the enumeration ceiling
// (rhythm.DefaultMaxSubdivisions). A spec whose subdivision count
// exceeds the ceiling fails with ErrResourceLimit before anything is
// materialized.
func WithMaxSubdivisions(max int) Option {
	return func(o *options) {
		o.maxSubdivisions = max
	}
}

// WithCompression configures the block compression used for metric
// snapshots. Defaults to ZSTD.
func WithCompression(ct session.CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}

// WithoutSnapshot disables writing a metric snapshot on SaveSession.
// Opening such a session regenerates the space, which is deterministic
// and therefore equivalent, at the cost of recompute time.
func WithoutSnapshot() Option {
	return func(o *options) {
		o.snapshotOnSave = false
	}
}

// WithCatalog registers every SaveSession in the given catalog, so
// tooling can list what was saved where. Conflicting concurrent writes
// to the same entry are retried against the latest revision.
//
// Example:
//
//	rg, _ := rhythmgo.New(ctx, spec, rhythmgo.WithCatalog(catalog.NewMemory()))
func WithCatalog(cat catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = cat
	}
}

// WithResourceController configures memory, worker, and IO budgets.
// Pass nil to run unbudgeted.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   512 << 20,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
//	rg, _ := rhythmgo.New(ctx, spec, rhythmgo.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithStatsCollector configures a stats collector for monitoring operations.
// Pass nil to disable stats collection.
//
// Example with BasicStatsCollector:
//
//	stats := &rhythmgo.BasicStatsCollector{}
//	rg, _ := rhythmgo.New(ctx, spec, rhythmgo.WithStatsCollector(stats))
//	// ... use rg ...
//	fmt.Printf("Vectors: %d\n", stats.GetStats().GenerateVectors)
func WithStatsCollector(sc StatsCollector) Option {
	return func(o *options) {
		o.statsCollector = sc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rhythmgo.NewJSONLogger(slog.LevelInfo)
//	rg, _ := rhythmgo.New(ctx, spec, rhythmgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:          codec.Default,
		compression:    session.CompressionZSTD,
		snapshotOnSave: true,
		statsCollector: NoopStatsCollector{},
		logger:         NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.statsCollector == nil {
		o.statsCollector = NoopStatsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
