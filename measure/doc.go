// Package measure describes the rhythmic frame everything else operates on:
// a time signature plus the subdivision structure of each beat.
//
// A Spec is immutable after construction and validated up front. The
// hierarchical WeightTable derived from a Spec is the shared, read-only
// input of every metric calculation; it is computed once per Spec and
// passed explicitly rather than cached globally.
package measure
