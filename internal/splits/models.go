package splits

// Mode selects how a split's effort is expressed: pace (seconds per
// kilometre, for foot activities) or speed (km/h, for everything else).
type Mode string

const (
	ModePace  Mode = "pace"
	ModeSpeed Mode = "speed"
)

// Split is one fixed-length kilometre segment of an activity.
type Split struct {
	Index    int      `json:"index"`
	Mode     Mode     `json:"mode"`
	Distance float64  `json:"distance"`
	Time     float64  `json:"time"`
	Pace     *float64 `json:"pace"`
	Speed    *float64 `json:"speed"`
	Label    string   `json:"label"`
	HRAvg    *float64 `json:"hrAvg"`
	HRMax    *float64 `json:"hrMax"`
	PowerAvg *float64 `json:"powerAvg"`
}

// Streams carries the aligned sample arrays of one activity. Distance and
// Time are required for segmentation; the rest are optional and used only
// when their length matches Distance's.
type Streams struct {
	Distance  []float64
	Time      []float64
	Heartrate []float64
	Watts     []float64
}
