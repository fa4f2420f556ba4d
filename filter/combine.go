package filter

import (
	"strings"

	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// Combinator selects how a filter's rule keep-sets are combined.
type Combinator int

const (
	// And keeps the intersection of all rule keep-sets.
	And Combinator = iota
	// Or keeps the union of all rule keep-sets.
	Or
)

// String returns "AND" or "OR".
func (c Combinator) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// Filter is a flat list of rules under exactly one combinator. Nesting is
// deliberately not supported; compose by filtering a filtered view again.
type Filter struct {
	combinator Combinator
	rules      []Rule
}

// New builds a filter from rules. At least one rule is assumed; a filter
// with no rules keeps everything under And and nothing under Or, which is
// the natural identity of each combinator.
func New(combinator Combinator, rules ...Rule) *Filter {
	return &Filter{
		combinator: combinator,
		rules:      append([]Rule(nil), rules...),
	}
}

// Combinator returns the filter's combinator.
func (f *Filter) Combinator() Combinator { return f.combinator }

// Rules returns the filter's rules in application order.
func (f *Filter) Rules() []Rule { return append([]Rule(nil), f.rules...) }

// Name returns a stable description of the whole filter.
func (f *Filter) Name() string {
	var b strings.Builder
	b.WriteString(f.combinator.String())
	b.WriteByte(':')
	for i, r := range f.rules {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(r.Name())
	}
	return b.String()
}

// Matches evaluates the filter against a single pair.
func (f *Filter) Matches(v rhythm.Vector, s metric.Set) bool {
	if f.combinator == Or {
		for _, r := range f.rules {
			if r.Matches(v, s) {
				return true
			}
		}
		return false
	}
	for _, r := range f.rules {
		if !r.Matches(v, s) {
			return false
		}
	}
	return true
}

// Apply evaluates the filter over parallel vector/metric slices and
// returns the keep-set of surviving indices. The canonical data is only
// read, never mutated, so the same slices can be filtered repeatedly with
// different filters.
func (f *Filter) Apply(vectors []rhythm.Vector, sets []metric.Set) *KeepSet {
	perRule := make([]*KeepSet, len(f.rules))
	for ri, r := range f.rules {
		ks := NewKeepSet()
		for i := range vectors {
			if r.Matches(vectors[i], sets[i]) {
				ks.Add(uint32(i))
			}
		}
		perRule[ri] = ks
	}

	if len(perRule) == 0 {
		ks := NewKeepSet()
		if f.combinator == And {
			for i := range vectors {
				ks.Add(uint32(i))
			}
		}
		return ks
	}

	combined := perRule[0]
	for _, ks := range perRule[1:] {
		if f.combinator == Or {
			combined.Or(ks)
		} else {
			combined.And(ks)
		}
	}
	return combined
}
