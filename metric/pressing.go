package metric

import (
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// Pressing prototype costs. Each unit of each metric level is matched to
// the cognitive prototype it instantiates; rest-led units that keep
// sounding into the unit are the expensive ones.
const (
	prsNull       = 0.0 // no onsets
	prsFilled     = 1.0 // onset on every position
	prsRun        = 2.0 // onset-led, partially filled
	prsUpbeat     = 3.0 // rest-led, onsets only on the final position
	prsSyncopated = 5.0 // rest-led otherwise
)

// prs computes the Pressing cognitive-complexity score.
//
// The measure's weight-table hierarchy partitions the positions into units
// at every metric level (half measures, beats, half beats, ... down to
// two-subdivision cells). Each unit is classified against the Pressing
// prototypes and the score is the sum over levels of the level's mean
// unit cost.
func prs(v rhythm.Vector, wt *measure.WeightTable) float64 {
	total := 0.0
	for _, level := range wt.Levels() {
		levelSum := 0.0
		for _, seg := range level {
			levelSum += prsUnitCost(v, seg)
		}
		total += levelSum / float64(len(level))
	}
	return total
}

func prsUnitCost(v rhythm.Vector, seg measure.Segment) float64 {
	onsets := 0
	lastOnset := -1
	for i := seg.Start; i < seg.End; i++ {
		if v.Onset(i) {
			onsets++
			lastOnset = i
		}
	}

	switch {
	case onsets == 0:
		return prsNull
	case v.Onset(seg.Start):
		if onsets == seg.Width() {
			return prsFilled
		}
		return prsRun
	case onsets == 1 && lastOnset == seg.End-1:
		return prsUpbeat
	default:
		return prsSyncopated
	}
}
