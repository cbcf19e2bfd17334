package store

import "backend-pacewatch/internal/splits"

// Sources an activity can arrive from.
const (
	SourceWebhook = "webhook"
	SourcePoll    = "poll"
)

// Activity is the provider-reported summary of one activity, kept under the
// provider's field names: the log is replayed across restarts, so these
// names are a compatibility contract.
type Activity struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SportType          string   `json:"sport_type"`
	StartDate          string   `json:"start_date"`
	StartDateLocal     string   `json:"start_date_local"`
	Distance           float64  `json:"distance"`
	MovingTime         float64  `json:"moving_time"`
	ElapsedTime        float64  `json:"elapsed_time"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	AverageSpeed       float64  `json:"average_speed"`
	MaxSpeed           float64  `json:"max_speed"`
	AverageHeartrate   *float64 `json:"average_heartrate,omitempty"`
	AverageCadence     *float64 `json:"average_cadence,omitempty"`
	AverageWatts       *float64 `json:"average_watts,omitempty"`
	Kilojoules         *float64 `json:"kilojoules,omitempty"`
	DeviceWatts        bool     `json:"device_watts"`
}

// Derived holds the stream-derived metrics computed at ingest time.
type Derived struct {
	Mode     splits.Mode    `json:"mode"`
	HRAvg    *float64       `json:"hrAvg"`
	HRMax    *float64       `json:"hrMax"`
	PowerAvg *float64       `json:"powerAvg"`
	PowerMax *float64       `json:"powerMax"`
	SpeedAvg *float64       `json:"speedAvg"`
	SpeedMax *float64       `json:"speedMax"`
	AvgPace  *float64       `json:"avgPace"`
	Splits   []splits.Split `json:"splits"`
}

// Record is one normalized, immutable log entry. SavedAt is unix
// milliseconds.
type Record struct {
	SavedAt  int64    `json:"savedAt"`
	Source   string   `json:"source"`
	Activity Activity `json:"activity"`
	Derived  Derived  `json:"derived"`
}

// Ledger tracks the polling cursor and which activity ids have already been
// processed, so neither ingestion path handles an activity twice. All
// timestamps are unix milliseconds.
type Ledger struct {
	LastCheckedAt int64            `json:"lastCheckedAt"`
	Processed     map[string]int64 `json:"processed"`
}

// NewLedger returns an empty ledger, the fallback whenever persisted state
// is missing or unreadable.
func NewLedger() Ledger {
	return Ledger{Processed: map[string]int64{}}
}

// IsProcessed reports whether id has already been handled.
func (l *Ledger) IsProcessed(id string) bool {
	_, ok := l.Processed[id]
	return ok
}
