// Package rhythmgo is an embeddable combinatorial rhythm generator for Go.
//
// Rhythmgo enumerates the complete onset/rest pattern space of a measure,
// scores every pattern against a fixed family of musicological metrics,
// and serves filtered views over the scored space:
//
//   - Exhaustive enumeration: all 2^N patterns for N subdivisions, in
//     deterministic ascending binary order
//   - Six metrics per pattern: Density, nPVI, LHL, PRS, TMC, TOB
//   - Range and positional-template filters with AND/OR combination,
//     backed by Roaring Bitmap keep-sets
//   - Parallel metric computation over a shared precomputed weight table
//   - Session persistence (measure + filters) and snapshot caching of the
//     scored space (LZ4/ZSTD block compression) over pluggable blob
//     storage (local disk, in-memory, S3, MinIO), with an optional
//     read-through LRU cache for remote stores
//   - Resource budgets: enumeration ceiling, memory budget, IO rate limit
//
// # Quick Start
//
// Score every sixteenth-note pattern of a 4/4 measure and keep the
// syncopated ones:
//
//	ctx := context.Background()
//
//	spec, _ := measure.New(measure.Meter{Numerator: 4, Denominator: 4}, []int{4, 4, 4, 4})
//	rg, _ := rhythmgo.New(ctx, spec, rhythmgo.WithNumWorkers(4))
//
//	lhl, _ := filter.NewRange("LHL", 4, math.Inf(1))
//	view := rg.Filter(ctx, filter.New(filter.And, lhl))
//	for v, m := range view.All() {
//	    fmt.Println(v, m.LHL)
//	}
//
// # Sessions
//
// A session records the measure definition and the applied filters so a
// run can be reproduced later:
//
//	store, _ := blobstore.NewLocalStore("./data")
//	_ = rg.SaveSession(ctx, store, "clave-study")
//
//	rg2, _ := rhythmgo.Open(ctx, store, "clave-study")
//
// Open reuses a metric snapshot when one was saved alongside the
// session; otherwise it regenerates the space, which is deterministic
// and therefore equivalent.
package rhythmgo
