// Package rhythm provides the onset-pattern value type and the exhaustive
// enumerator over a measure's pattern space.
//
// A Vector packs the measure's N onset/rest slots into a uint64 with
// position 0 at the most significant bit, so reading a vector as a binary
// number gives the deterministic generation order: the Enumerator yields
// every pattern exactly once, in ascending numeric order.
//
// Enumeration is all-or-nothing. The pattern space doubles with every
// subdivision, so the Enumerator checks its configured ceiling before
// materializing anything and fails with ErrLimitExceeded instead of
// truncating or exhausting memory.
package rhythm
