package metric

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/resource"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// Engine computes metric sets for vectors of one measure spec. It owns the
// spec's precomputed weight table, the shared read-only input of every
// calculator, so the table is derived once no matter how many of the
// potentially millions of vectors are scored against it.
type Engine struct {
	spec    *measure.Spec
	weights *measure.WeightTable
	rc      *resource.Controller
}

// Option configures an Engine.
type Option func(*Engine)

// WithController makes ComputeAll draw its scoring goroutines from the
// controller's worker slots, so concurrent engines share one ceiling.
func WithController(rc *resource.Controller) Option {
	return func(e *Engine) {
		e.rc = rc
	}
}

// NewEngine creates an engine for the given spec, precomputing its weight
// table.
func NewEngine(spec *measure.Spec, optFns ...Option) *Engine {
	e := &Engine{
		spec:    spec,
		weights: measure.NewWeightTable(spec),
	}
	for _, fn := range optFns {
		fn(e)
	}
	return e
}

// Weights exposes the engine's weight table.
func (e *Engine) Weights() *measure.WeightTable { return e.weights }

// Compute scores a single vector. Pure: the result depends only on the
// vector, the spec and the weight table.
func (e *Engine) Compute(v rhythm.Vector) Set {
	return Set{
		Density: v.OnsetCount(),
		NPVI:    npvi(v),
		LHL:     lhl(v, e.weights),
		PRS:     prs(v, e.weights),
		TMC:     tmc(v, e.weights),
		TOB:     tob(v),
	}
}

// ComputeAll scores every vector, fanning the work out over workers
// goroutines (GOMAXPROCS if workers <= 0). Each result lands in the slot
// matching its vector's index, so the output order is the input order
// regardless of scheduling. With a controller attached, every scoring
// goroutine holds one of its worker slots for its whole chunk.
func (e *Engine) ComputeAll(ctx context.Context, vectors []rhythm.Vector, workers int) ([]Set, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(vectors) {
		workers = len(vectors)
	}

	sets := make([]Set, len(vectors))
	if workers <= 1 {
		if err := e.rc.AcquireWorker(ctx); err != nil {
			return nil, err
		}
		defer e.rc.ReleaseWorker()

		for i, v := range vectors {
			if i%4096 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			sets[i] = e.Compute(v)
		}
		return sets, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(vectors) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(vectors) {
			hi = len(vectors)
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			if err := e.rc.AcquireWorker(ctx); err != nil {
				return err
			}
			defer e.rc.ReleaseWorker()

			for i := lo; i < hi; i++ {
				if i%4096 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				sets[i] = e.Compute(vectors[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sets, nil
}
