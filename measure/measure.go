package measure

import (
	"fmt"
	"strconv"
	"strings"
)

// Meter is a time signature.
type Meter struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// String returns the conventional "4/4" form.
func (m Meter) String() string {
	return strconv.Itoa(m.Numerator) + "/" + strconv.Itoa(m.Denominator)
}

// ErrInvalidSpec indicates a measure specification that cannot describe a
// real measure (empty time map, non-positive counts).
type ErrInvalidSpec struct {
	Reason string
}

func (e *ErrInvalidSpec) Error() string {
	return fmt.Sprintf("invalid measure spec: %s", e.Reason)
}

// Spec is the immutable description of a measure: its meter and the number
// of subdivisions in each consecutive beat.
//
// Examples:
//
//	4/4 time, sixteenth-note grid: TimeMap [4,4,4,4], 16 subdivisions
//	6/8 time, eighth-note grid:    TimeMap [3,3], 6 subdivisions
//	7/8 time, eighth-note grid:    TimeMap [3,2,2], 7 subdivisions
//
// AnchorDownbeat restricts enumeration to patterns with an onset on
// position 0. The default is the full unconstrained space; downbeat
// presence can always be expressed as a pattern filter instead.
type Spec struct {
	meter          Meter
	timeMap        []int
	subdivisions   int
	anchorDownbeat bool
}

// SpecOption configures optional Spec behavior.
type SpecOption func(*Spec)

// WithAnchorDownbeat forces an onset at position 0 during enumeration,
// halving the generated space to 2^(N-1) vectors.
func WithAnchorDownbeat() SpecOption {
	return func(s *Spec) {
		s.anchorDownbeat = true
	}
}

// New validates and constructs a Spec. The time map is copied; the caller
// keeps ownership of the slice it passed.
func New(meter Meter, timeMap []int, optFns ...SpecOption) (*Spec, error) {
	if meter.Numerator <= 0 || meter.Denominator <= 0 {
		return nil, &ErrInvalidSpec{Reason: fmt.Sprintf("meter %s must be positive", meter)}
	}
	if len(timeMap) == 0 {
		return nil, &ErrInvalidSpec{Reason: "time map must not be empty"}
	}

	total := 0
	for i, divs := range timeMap {
		if divs < 1 {
			return nil, &ErrInvalidSpec{Reason: fmt.Sprintf("beat %d has %d subdivisions, need at least 1", i, divs)}
		}
		total += divs
	}

	s := &Spec{
		meter:        meter,
		timeMap:      append([]int(nil), timeMap...),
		subdivisions: total,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(s)
		}
	}

	return s, nil
}

// Meter returns the time signature.
func (s *Spec) Meter() Meter { return s.meter }

// TimeMap returns a copy of the per-beat subdivision counts.
func (s *Spec) TimeMap() []int { return append([]int(nil), s.timeMap...) }

// Beats returns the number of beats in the measure.
func (s *Spec) Beats() int { return len(s.timeMap) }

// Subdivisions returns N, the total number of onset positions.
func (s *Spec) Subdivisions() int { return s.subdivisions }

// AnchorDownbeat reports whether enumeration is restricted to patterns
// with an onset on the downbeat.
func (s *Spec) AnchorDownbeat() bool { return s.anchorDownbeat }

// BeatStarts returns the position of the first subdivision of each beat.
func (s *Spec) BeatStarts() []int {
	starts := make([]int, len(s.timeMap))
	pos := 0
	for i, divs := range s.timeMap {
		starts[i] = pos
		pos += divs
	}
	return starts
}

// Equal reports whether two specs describe the same measure, including the
// anchor flag. Used to validate snapshots against the spec they were
// computed for.
func (s *Spec) Equal(other *Spec) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.meter != other.meter || s.anchorDownbeat != other.anchorDownbeat {
		return false
	}
	if len(s.timeMap) != len(other.timeMap) {
		return false
	}
	for i := range s.timeMap {
		if s.timeMap[i] != other.timeMap[i] {
			return false
		}
	}
	return true
}

// String renders the spec in a compact human-readable form,
// e.g. "4/4[4 4 4 4]".
func (s *Spec) String() string {
	var b strings.Builder
	b.WriteString(s.meter.String())
	b.WriteByte('[')
	for i, divs := range s.timeMap {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(divs))
	}
	b.WriteByte(']')
	return b.String()
}
