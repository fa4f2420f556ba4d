// Package filter selects subsets of an enumerated result set.
//
// Two rule kinds exist: range rules over a named metric (inclusive
// bounds) and positional pattern rules ('1' onset, '0' rest, 'X' don't
// care, optional '_' beat delimiters). A Filter is a flat list of rules
// with exactly one combinator: And intersects the rules' keep-sets, Or
// unions them. Keep-sets are roaring bitmaps over result indices, so
// combination is set algebra, not re-evaluation.
//
// All validation happens at construction: an unknown metric name or a
// malformed pattern never fails mid-evaluation.
package filter
