package metric

import (
	"github.com/hupe1980/rhythmgo/measure"
	"github.com/hupe1980/rhythmgo/rhythm"
)

// tmc computes Toussaint's metric complexity: the weighted distance
// between the pattern and an idealized maximally-metric pattern with the
// same number of onsets.
//
// The pattern's metricity is the sum of position saliences at its onsets;
// the ideal metricity for k onsets is the sum of the k largest saliences
// in the table. TMC is ideal minus actual, so 0 means the onsets occupy
// the strongest available positions and larger values mean more
// syncopation.
func tmc(v rhythm.Vector, wt *measure.WeightTable) float64 {
	metricity := 0
	k := 0
	for i := 0; i < v.Len(); i++ {
		if v.Onset(i) {
			metricity += wt.Salience(i)
			k++
		}
	}
	return float64(wt.TopSaliences(k) - metricity)
}

// tob computes Toussaint's off-beatness: the number of onsets on positions
// no regular onset cycle can reach.
//
// A position p is on-beat if some evenly spaced cycle through the measure
// hits it, which for a cycle anchored on the downbeat means p shares a
// factor with N. Off-beat positions are exactly those with gcd(p, N) = 1,
// and the score counts the onsets sitting on them.
func tob(v rhythm.Vector) float64 {
	n := v.Len()
	count := 0
	for p := 1; p < n; p++ {
		if v.Onset(p) && gcd(p, n) == 1 {
			count++
		}
	}
	return float64(count)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
