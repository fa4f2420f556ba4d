package metric

import (
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// lhl computes the Longuet-Higgins & Lee syncopation score.
//
// For every onset, the rest positions up to the next onset (or the end of
// the measure) are examined. If the strongest of those rests outweighs the
// onset's own metric weight, the pattern contradicts the meter there and
// the weight difference is added to the score. The measure is treated as a
// standalone sequence, not a cycle, so rests before the first onset and
// syncopation against the following bar's downbeat do not contribute.
//
// A pattern with no onset-rest pair in this relation scores 0; so does the
// empty pattern.
func lhl(v rhythm.Vector, wt *measure.WeightTable) float64 {
	sum := 0
	noteWeight := 0
	haveNote := false
	restMax := 0
	haveRest := false

	flush := func() {
		if haveNote && haveRest && restMax > noteWeight {
			sum += restMax - noteWeight
		}
	}

	for i := 0; i < v.Len(); i++ {
		if v.Onset(i) {
			flush()
			noteWeight = wt.Weight(i)
			haveNote = true
			haveRest = false
		} else if haveNote {
			if w := wt.Weight(i); !haveRest || w > restMax {
				restMax = w
				haveRest = true
			}
		}
	}
	flush()

	return float64(sum)
}
