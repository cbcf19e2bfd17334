package splits

// Verdict labels the overall pacing pattern of a pace-mode activity.
type Verdict string

const (
	VerdictStable        Verdict = "stable"
	VerdictNegativeSplit Verdict = "negative split"
	VerdictFade          Verdict = "fade"
)

// Fewer valid splits than this and no verdict is offered.
const minPacedSplits = 4

// Halves within this many seconds of each other count as stable.
const stableThresholdSec = 5.0

// ClassifyPacing compares the mean pace of the first and second halves of
// the valid splits. It is a deliberately simple half-vs-half heuristic, not
// a trend fit. Returns nil when there are fewer than four splits with a
// pace value.
func ClassifyPacing(list []Split) *Verdict {
	var paced []float64
	for _, sp := range list {
		if sp.Pace != nil {
			paced = append(paced, *sp.Pace)
		}
	}
	if len(paced) < minPacedSplits {
		return nil
	}

	mid := len(paced) / 2
	diff := mean(paced[mid:]) - mean(paced[:mid])

	v := VerdictFade
	switch {
	case diff < stableThresholdSec && diff > -stableThresholdSec:
		v = VerdictStable
	case diff < 0:
		v = VerdictNegativeSplit
	}
	return &v
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
