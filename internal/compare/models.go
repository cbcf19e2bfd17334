package compare

import "backend-pacewatch/internal/splits"

// PaceOrSpeed is the mode-tagged effort metric: seconds per kilometre in
// pace mode, km/h in speed mode. Keeping the mode on the value makes the
// sign conventions below explicit instead of overloading one nullable
// number.
type PaceOrSpeed struct {
	Mode  splits.Mode `json:"mode"`
	Value float64     `json:"value"`
}

// Deltas holds current − prior differences. Sign convention for
// PaceOrSpeed: in pace mode negative means faster, in speed mode positive
// means faster. A nil delta means one side was unknown; a nil percentage
// additionally means the prior value was zero.
type Deltas struct {
	Distance       *float64 `json:"distance"`
	MovingTime     *float64 `json:"movingTime"`
	ElevationGain  *float64 `json:"elevationGain"`
	PaceOrSpeed    *float64 `json:"paceOrSpeed"`
	PaceOrSpeedPct *float64 `json:"paceOrSpeedPct"`
	HRAvg          *float64 `json:"hrAvg"`
	HRMax          *float64 `json:"hrMax"`
	PowerAvg       *float64 `json:"powerAvg"`
	PowerAvgPct    *float64 `json:"powerAvgPct"`
}

// Comparison is the week-over-week result against one matched prior
// activity.
type Comparison struct {
	MatchedID    int64       `json:"matchedId"`
	MatchedStart string      `json:"matchedStart"`
	Mode         splits.Mode `json:"mode"`
	Deltas       Deltas      `json:"deltas"`
}
