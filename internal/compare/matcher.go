package compare

import (
	"time"

	"backend-pacewatch/internal/store"
)

const (
	windowNear = 7 * 24 * time.Hour
	windowFar  = 14 * 24 * time.Hour

	// Candidates must be within ±20% of the current distance.
	distanceTolerance = 0.20
)

// FindComparable scans history for the single best prior activity: same
// type, started 7–14 days before the current one, similar distance. Among
// candidates the most recent start wins (closest to one week ago). Returns
// nil when nothing qualifies or the current start cannot be parsed.
func FindComparable(current store.Record, history []store.Record) *store.Record {
	curStart, ok := startTime(current.Activity)
	if !ok {
		return nil
	}
	earliest := curStart.Add(-windowFar)
	latest := curStart.Add(-windowNear)

	var (
		best      *store.Record
		bestStart time.Time
	)
	for i := range history {
		cand := &history[i]
		if cand.Activity.ID == current.Activity.ID {
			continue
		}
		if cand.Activity.Type != current.Activity.Type {
			continue
		}
		candStart, ok := startTime(cand.Activity)
		if !ok || candStart.Before(earliest) || candStart.After(latest) {
			continue
		}
		if !distanceComparable(current.Activity.Distance, cand.Activity.Distance) {
			continue
		}
		if best == nil || candStart.After(bestStart) {
			best, bestStart = cand, candStart
		}
	}
	return best
}

// distanceComparable applies the ±20% filter. When the current distance is
// unknown the filter is skipped entirely; when known, candidates with an
// unknown distance are excluded.
func distanceComparable(current, candidate float64) bool {
	if current <= 0 {
		return true
	}
	if candidate <= 0 {
		return false
	}
	return candidate >= current*(1-distanceTolerance) && candidate <= current*(1+distanceTolerance)
}

// startTime parses the local start timestamp, falling back to UTC.
func startTime(a store.Activity) (time.Time, bool) {
	for _, raw := range []string{a.StartDateLocal, a.StartDate} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
