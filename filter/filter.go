package filter

import (
	"fmt"
	"strings"

	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/metric"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// ErrUnknownMetric indicates a range rule referencing a metric name
// outside the closed metric set.
type ErrUnknownMetric struct {
	Name string
}

func (e *ErrUnknownMetric) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Name)
}

// ErrInvalidPattern indicates a pattern template that cannot match any
// vector of the spec it was built for.
type ErrInvalidPattern struct {
	Pattern string
	Reason  string
}

func (e *ErrInvalidPattern) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// Rule is a single filter predicate over a (vector, metric set) pair.
// Rules are immutable and fully validated at construction.
type Rule interface {
	// Matches reports whether the pair survives the rule.
	Matches(v rhythm.Vector, s metric.Set) bool
	// Name returns a stable human-readable description of the rule.
	Name() string
}

// RangeRule keeps pairs whose named metric falls within [Min, Max],
// bounds inclusive.
type RangeRule struct {
	kind metric.Kind
	min  float64
	max  float64
}

// NewRange builds a range rule over the named metric. The name must be one
// of the canonical metric names; anything else fails here, never during
// evaluation.
func NewRange(metricName string, min, max float64) (*RangeRule, error) {
	kind, ok := metric.KindFromName(metricName)
	if !ok {
		return nil, &ErrUnknownMetric{Name: metricName}
	}
	return &RangeRule{kind: kind, min: min, max: max}, nil
}

// NewRangeKind builds a range rule directly from a metric kind.
func NewRangeKind(kind metric.Kind, min, max float64) *RangeRule {
	return &RangeRule{kind: kind, min: min, max: max}
}

// Kind returns the metric the rule ranges over.
func (r *RangeRule) Kind() metric.Kind { return r.kind }

// Min returns the inclusive lower bound.
func (r *RangeRule) Min() float64 { return r.min }

// Max returns the inclusive upper bound.
func (r *RangeRule) Max() float64 { return r.max }

// Matches implements Rule.
func (r *RangeRule) Matches(_ rhythm.Vector, s metric.Set) bool {
	val := s.Value(r.kind)
	return val >= r.min && val <= r.max
}

// Name implements Rule.
func (r *RangeRule) Name() string {
	return fmt.Sprintf("RANGE:%s[%g,%g]", r.kind, r.min, r.max)
}

// Slot is one position of a pattern template.
type Slot uint8

const (
	// SlotAny matches onset or rest.
	SlotAny Slot = iota
	// SlotOnset requires an onset.
	SlotOnset
	// SlotRest requires a rest.
	SlotRest
)

// PatternRule keeps vectors matching a positional template.
type PatternRule struct {
	pattern string
	slots   []Slot
}

// NewPattern parses a pattern template for the given spec. The template
// uses '1' for a required onset, '0' for a required rest, 'X' for don't
// care, and optionally '_' between beats. Delimiters, when present, must
// sit exactly on the spec's beat boundaries, and the positions must cover
// the spec's full subdivision count.
func NewPattern(pattern string, spec *measure.Spec) (*PatternRule, error) {
	n := spec.Subdivisions()
	boundaries := make(map[int]bool, spec.Beats())
	for _, start := range spec.BeatStarts() {
		if start > 0 {
			boundaries[start] = true
		}
	}

	slots := make([]Slot, 0, n)
	sawDelimiter := false
	for _, c := range pattern {
		switch c {
		case '1':
			slots = append(slots, SlotOnset)
		case '0':
			slots = append(slots, SlotRest)
		case 'X', 'x':
			slots = append(slots, SlotAny)
		case '_':
			sawDelimiter = true
			if !boundaries[len(slots)] {
				return nil, &ErrInvalidPattern{Pattern: pattern, Reason: fmt.Sprintf("delimiter after position %d is not a beat boundary", len(slots)-1)}
			}
		default:
			return nil, &ErrInvalidPattern{Pattern: pattern, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	if len(slots) != n {
		return nil, &ErrInvalidPattern{Pattern: pattern, Reason: fmt.Sprintf("template covers %d positions, spec has %d", len(slots), n)}
	}
	if sawDelimiter && strings.Count(pattern, "_") != spec.Beats()-1 {
		return nil, &ErrInvalidPattern{Pattern: pattern, Reason: "delimited template must separate every beat"}
	}

	return &PatternRule{pattern: pattern, slots: slots}, nil
}

// Pattern returns the template string the rule was built from.
func (p *PatternRule) Pattern() string { return p.pattern }

// Matches implements Rule.
func (p *PatternRule) Matches(v rhythm.Vector, _ metric.Set) bool {
	if v.Len() != len(p.slots) {
		return false
	}
	for i, slot := range p.slots {
		switch slot {
		case SlotOnset:
			if !v.Onset(i) {
				return false
			}
		case SlotRest:
			if v.Onset(i) {
				return false
			}
		}
	}
	return true
}

// Name implements Rule.
func (p *PatternRule) Name() string {
	return "PATTERN:" + p.pattern
}
