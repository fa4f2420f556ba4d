package metric

import "github.com/hupe1980/rhythmgo/rhythm"

// npvi computes the normalized pairwise variability index of the pattern's
// inter-onset durations.
//
// Convention (open sequence, applied uniformly): positions before the first
// onset are ignored, each duration runs from an onset to the next onset,
// and the final onset's duration runs to the end of the measure. With
// durations d_1..d_m the score is the mean over adjacent pairs of
// 200*|d_k-d_{k+1}|/(d_k+d_{k+1}).
//
// Patterns with fewer than two onsets have no duration contrast and score
// 0 by definition.
func npvi(v rhythm.Vector) float64 {
	if v.OnsetCount() < 2 {
		return 0
	}

	onsets := v.OnsetPositions()
	durations := make([]int, 0, len(onsets))
	for i := 0; i < len(onsets)-1; i++ {
		durations = append(durations, onsets[i+1]-onsets[i])
	}
	durations = append(durations, v.Len()-onsets[len(onsets)-1])

	sum := 0.0
	for i := 0; i < len(durations)-1; i++ {
		d0, d1 := float64(durations[i]), float64(durations[i+1])
		sum += 200 * abs(d0-d1) / (d0 + d1)
	}
	return sum / float64(len(durations)-1)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
