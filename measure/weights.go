package measure

import "sort"

// Segment is a half-open position range [Start, End) within a measure.
type Segment struct {
	Start int
	End   int
}

// Width returns the number of subdivisions the segment spans.
func (s Segment) Width() int { return s.End - s.Start }

// WeightTable holds the hierarchical metric weights of a Spec.
//
// The table is built by recursively dividing the measure: the beat count is
// split by its prime factors (ascending, so 4/4 gains a half-measure level
// before the beat level), then each beat's subdivision count is split the
// same way down to single subdivisions. A position's depth is the division
// level at which it first becomes a segment start; the downbeat has depth 0.
//
// Two weight views are derived from depth:
//
//	Weight(i)   = -Depth(i)          (Longuet-Higgins & Lee convention)
//	Salience(i) = MaxDepth()-Depth(i) (non-negative, used by TMC)
//
// A WeightTable is read-only after construction and safe for concurrent use.
type WeightTable struct {
	n               int
	depths          []int
	maxDepth        int
	levels          [][]Segment
	sortedSaliences []int
}

// NewWeightTable derives the weight table for a Spec. The dominant cost of
// a full analysis is amortized here: the table is computed once and shared
// by every vector's metric computation.
func NewWeightTable(spec *Spec) *WeightTable {
	n := spec.Subdivisions()
	timeMap := spec.TimeMap()
	starts := spec.BeatStarts()

	levels := [][]Segment{{{Start: 0, End: n}}}

	// Beat-grouping levels: split ranges of whole beats by each prime
	// factor of the beat count.
	groups := []Segment{{Start: 0, End: len(timeMap)}}
	for _, f := range primeFactors(len(timeMap)) {
		var next []Segment
		for _, g := range groups {
			size := g.Width() / f
			for i := 0; i < f; i++ {
				next = append(next, Segment{Start: g.Start + i*size, End: g.Start + (i+1)*size})
			}
		}
		groups = next
		levels = append(levels, beatRangesToPositions(groups, starts, n))
	}
	// The factor walk ends on single beats (or never ran for a one-beat
	// measure), so the within-beat stage picks up from individual beats.

	// Within-beat levels: split every beat by its own factor list, carrying
	// beats that ran out of factors through unchanged. Beats may have
	// unequal subdivision counts (7/8 as [3,2,2]), so factor lists differ
	// in length.
	beatFactors := make([][]int, len(timeMap))
	maxSub := 0
	for b, divs := range timeMap {
		beatFactors[b] = primeFactors(divs)
		if len(beatFactors[b]) > maxSub {
			maxSub = len(beatFactors[b])
		}
	}

	perBeat := make([][]Segment, len(timeMap))
	for b := range timeMap {
		perBeat[b] = []Segment{{Start: starts[b], End: starts[b] + timeMap[b]}}
	}
	for l := 0; l < maxSub; l++ {
		var level []Segment
		for b := range timeMap {
			if l < len(beatFactors[b]) {
				f := beatFactors[b][l]
				var next []Segment
				for _, seg := range perBeat[b] {
					size := seg.Width() / f
					for i := 0; i < f; i++ {
						next = append(next, Segment{Start: seg.Start + i*size, End: seg.Start + (i+1)*size})
					}
				}
				perBeat[b] = next
			}
			level = append(level, perBeat[b]...)
		}
		levels = append(levels, level)
	}

	wt := &WeightTable{
		n:        n,
		depths:   make([]int, n),
		maxDepth: len(levels) - 1,
		levels:   levels,
	}
	for i := range wt.depths {
		wt.depths[i] = -1
	}
	for depth, level := range levels {
		for _, seg := range level {
			if wt.depths[seg.Start] == -1 {
				wt.depths[seg.Start] = depth
			}
		}
	}

	wt.sortedSaliences = make([]int, n)
	for i, d := range wt.depths {
		wt.sortedSaliences[i] = wt.maxDepth - d
	}
	sort.Sort(sort.Reverse(sort.IntSlice(wt.sortedSaliences)))

	return wt
}

// Subdivisions returns the number of positions the table covers.
func (wt *WeightTable) Subdivisions() int { return wt.n }

// Depth returns the metric depth of position i (downbeat = 0).
func (wt *WeightTable) Depth(i int) int { return wt.depths[i] }

// MaxDepth returns the deepest division level of the hierarchy.
func (wt *WeightTable) MaxDepth() int { return wt.maxDepth }

// Weight returns the LHL metric weight of position i: 0 on the downbeat,
// decreasing by one per division level.
func (wt *WeightTable) Weight(i int) int { return -wt.depths[i] }

// Salience returns the non-negative metric weight of position i; the
// downbeat carries the highest salience.
func (wt *WeightTable) Salience(i int) int { return wt.maxDepth - wt.depths[i] }

// TopSaliences returns the sum of the k largest position saliences, the
// metricity of an idealized maximally-metric k-onset pattern.
func (wt *WeightTable) TopSaliences(k int) int {
	if k > len(wt.sortedSaliences) {
		k = len(wt.sortedSaliences)
	}
	sum := 0
	for i := 0; i < k; i++ {
		sum += wt.sortedSaliences[i]
	}
	return sum
}

// Levels returns the segment partitions of the hierarchy that still span
// more than one subdivision, ordered from the whole measure downward. This
// is the unit structure the Pressing calculator classifies against.
func (wt *WeightTable) Levels() [][]Segment {
	var out [][]Segment
	for _, level := range wt.levels {
		wide := false
		for _, seg := range level {
			if seg.Width() >= 2 {
				wide = true
				break
			}
		}
		if wide {
			out = append(out, level)
		}
	}
	return out
}

func beatRangesToPositions(groups []Segment, beatStarts []int, n int) []Segment {
	out := make([]Segment, len(groups))
	for i, g := range groups {
		end := n
		if g.End < len(beatStarts) {
			end = beatStarts[g.End]
		}
		out[i] = Segment{Start: beatStarts[g.Start], End: end}
	}
	return out
}

func primeFactors(n int) []int {
	var factors []int
	for p := 2; p*p <= n; p++ {
		for n%p == 0 {
			factors = append(factors, p)
			n /= p
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}
