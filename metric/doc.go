// Package metric implements the six musicological metrics computed for
// every enumerated onset pattern: density, nPVI, and the four
// syncopation/metricity models LHL (Longuet-Higgins & Lee), PRS
// (Pressing), TMC (Toussaint metric complexity) and TOB (Toussaint
// off-beatness).
//
// The metric set is fixed by the domain: Kind is a closed enum, not an
// extensible registry. Every calculator is a pure function of the vector,
// the measure spec and the spec's precomputed weight table, so batch
// computation parallelizes freely; the Engine only restores canonical
// ordering when it writes results into their slots.
//
// Degenerate inputs produce defined degenerate values, never errors:
// nPVI of fewer than two onsets is 0, and every model scores the empty
// pattern 0.
package metric
