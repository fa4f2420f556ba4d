package metric

// Kind identifies one of the six computed metrics. The set is closed:
// it is fixed by the domain and does not grow at runtime.
type Kind int

const (
	// KindDensity is the onset count.
	KindDensity Kind = iota
	// KindNPVI is the normalized pairwise variability index of
	// inter-onset durations.
	KindNPVI
	// KindLHL is the Longuet-Higgins & Lee syncopation score.
	KindLHL
	// KindPRS is the Pressing cognitive-complexity score.
	KindPRS
	// KindTMC is the Toussaint metric-complexity score.
	KindTMC
	// KindTOB is the Toussaint off-beatness score.
	KindTOB

	numKinds
)

var kindNames = [numKinds]string{"Density", "nPVI", "LHL", "PRS", "TMC", "TOB"}

// String returns the metric's canonical name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns all metric kinds in canonical column order.
func Kinds() []Kind {
	return []Kind{KindDensity, KindNPVI, KindLHL, KindPRS, KindTMC, KindTOB}
}

// KindFromName resolves a metric's canonical name, case-sensitively.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Set holds the six metric values of one onset pattern. A Set is computed
// once and never mutated.
type Set struct {
	Density int     `json:"density"`
	NPVI    float64 `json:"npvi"`
	LHL     float64 `json:"lhl"`
	PRS     float64 `json:"prs"`
	TMC     float64 `json:"tmc"`
	TOB     float64 `json:"tob"`
}

// Value returns the named metric as a float64, the uniform form range
// filters compare against.
func (s Set) Value(k Kind) float64 {
	switch k {
	case KindDensity:
		return float64(s.Density)
	case KindNPVI:
		return s.NPVI
	case KindLHL:
		return s.LHL
	case KindPRS:
		return s.PRS
	case KindTMC:
		return s.TMC
	case KindTOB:
		return s.TOB
	default:
		return 0
	}
}
