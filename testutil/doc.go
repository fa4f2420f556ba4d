// Package testutil provides testing utilities for rhythmgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for building measure specs and rhythm vectors
// from compact string forms, and an exhaustive reference scorer for
// cross-checking filtered results.
//
// # Specs and Vectors
//
//	spec := testutil.MustSpec(t, 4, 4, 4, 4, 4, 4)   // 4/4, four beats of four
//	v := testutil.MustVector(t, "1001001000101000")  // son clave
//
// # Reference Filtering
//
//	kept := testutil.BruteForceFilter(vectors, sets, f)
package testutil
