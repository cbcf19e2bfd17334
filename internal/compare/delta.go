package compare

import (
	"strings"

	"backend-pacewatch/internal/shared/units"
	"backend-pacewatch/internal/splits"
	"backend-pacewatch/internal/store"
)

// Foot-powered activity types are expressed as pace; everything else as
// speed.
var paceTypes = []string{"run", "walk", "hike"}

// ModeFor picks pace or speed from the activity's type and sub-type
// (substring match, so "TrailRun" and "VirtualRun" count as runs).
func ModeFor(a store.Activity) splits.Mode {
	haystack := strings.ToLower(a.Type + " " + a.SportType)
	for _, t := range paceTypes {
		if strings.Contains(haystack, t) {
			return splits.ModePace
		}
	}
	return splits.ModeSpeed
}

// Compare computes week-over-week deltas between the current record and a
// matched prior one. A nil match yields a nil comparison, which downstream
// formatting renders as "no comparison available".
func Compare(current store.Record, prior *store.Record) *Comparison {
	if prior == nil {
		return nil
	}
	mode := ModeFor(current.Activity)

	c := &Comparison{
		MatchedID:    prior.Activity.ID,
		MatchedStart: matchedStart(prior.Activity),
		Mode:         mode,
	}

	c.Deltas.Distance = delta(known(current.Activity.Distance), known(prior.Activity.Distance))
	c.Deltas.MovingTime = delta(known(current.Activity.MovingTime), known(prior.Activity.MovingTime))
	c.Deltas.ElevationGain = delta(&current.Activity.TotalElevationGain, &prior.Activity.TotalElevationGain)

	curEffort := paceOrSpeed(current, mode)
	priorEffort := paceOrSpeed(*prior, mode)
	if curEffort != nil && priorEffort != nil {
		d := curEffort.Value - priorEffort.Value
		c.Deltas.PaceOrSpeed = &d
		c.Deltas.PaceOrSpeedPct = pct(d, priorEffort.Value)
	}

	c.Deltas.HRAvg = delta(
		preferStream(current.Derived.HRAvg, current.Activity.AverageHeartrate),
		preferStream(prior.Derived.HRAvg, prior.Activity.AverageHeartrate),
	)
	c.Deltas.HRMax = delta(current.Derived.HRMax, prior.Derived.HRMax)

	curPower := preferStream(current.Derived.PowerAvg, current.Activity.AverageWatts)
	priorPower := preferStream(prior.Derived.PowerAvg, prior.Activity.AverageWatts)
	c.Deltas.PowerAvg = delta(curPower, priorPower)
	if c.Deltas.PowerAvg != nil {
		c.Deltas.PowerAvgPct = pct(*c.Deltas.PowerAvg, *priorPower)
	}

	return c
}

// paceOrSpeed resolves a record's effort metric in the requested mode,
// preferring stream-derived values and falling back to the provider
// summary. Nil when neither source can produce a value.
func paceOrSpeed(rec store.Record, mode splits.Mode) *PaceOrSpeed {
	if mode == splits.ModePace {
		if rec.Derived.AvgPace != nil {
			return &PaceOrSpeed{Mode: mode, Value: *rec.Derived.AvgPace}
		}
		if rec.Activity.Distance > 0 && rec.Activity.MovingTime > 0 {
			v := rec.Activity.MovingTime / units.MetersToKm(rec.Activity.Distance)
			return &PaceOrSpeed{Mode: mode, Value: v}
		}
		return nil
	}
	if rec.Derived.SpeedAvg != nil {
		return &PaceOrSpeed{Mode: mode, Value: *rec.Derived.SpeedAvg}
	}
	if rec.Activity.AverageSpeed > 0 {
		return &PaceOrSpeed{Mode: mode, Value: units.MpsToKmh(rec.Activity.AverageSpeed)}
	}
	return nil
}

// preferStream is the one place the stream-vs-provider priority lives:
// stream-derived statistics win when present, the provider-reported average
// is the fallback.
func preferStream(derived, reported *float64) *float64 {
	if derived != nil {
		return derived
	}
	return reported
}

func delta(cur, prior *float64) *float64 {
	if cur == nil || prior == nil {
		return nil
	}
	d := *cur - *prior
	return &d
}

// pct is the percentage difference relative to prior, undefined at zero.
func pct(diff, prior float64) *float64 {
	if prior == 0 {
		return nil
	}
	p := diff / prior * 100
	return &p
}

// known treats non-positive provider values as absent.
func known(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func matchedStart(a store.Activity) string {
	if a.StartDateLocal != "" {
		return a.StartDateLocal
	}
	return a.StartDate
}
