package coach

import (
	"math"
	"time"

	"backend-pacewatch/internal/compare"
	"backend-pacewatch/internal/shared/units"
	"backend-pacewatch/internal/splits"
	"backend-pacewatch/internal/stats"
	"backend-pacewatch/internal/store"
	"backend-pacewatch/internal/strava"
)

// Normalize turns a provider activity plus its raw streams into the
// immutable record the log keeps. Whatever the streams can't support is
// simply left nil.
func Normalize(activity store.Activity, ss strava.StreamSet, source string, now time.Time) store.Record {
	mode := compare.ModeFor(activity)

	dist := ss.Floats("distance")
	times := ss.Floats("time")
	hr := ss.Floats("heartrate")
	watts := ss.Floats("watts")

	d := store.Derived{
		Mode: mode,
		Splits: splits.Build(splits.Streams{
			Distance:  dist,
			Time:      times,
			Heartrate: hr,
			Watts:     watts,
		}, mode),
	}

	hrSum := stats.Summarize(hr)
	d.HRAvg, d.HRMax = hrSum.Avg, hrSum.Max

	powerSum := stats.Summarize(watts)
	d.PowerAvg, d.PowerMax = powerSum.Avg, powerSum.Max

	velSum := stats.Summarize(ss.Floats("velocity_smooth"))
	d.SpeedAvg = toKmh(velSum.Avg)
	d.SpeedMax = toKmh(velSum.Max)

	d.AvgPace = overallPace(dist, times)

	return store.Record{
		SavedAt:  now.UnixMilli(),
		Source:   source,
		Activity: activity,
		Derived:  d,
	}
}

// overallPace derives the whole-activity pace from the cumulative streams.
func overallPace(dist, times []float64) *float64 {
	if len(dist) < 2 || len(dist) != len(times) {
		return nil
	}
	total := dist[len(dist)-1] - dist[0]
	dur := times[len(times)-1] - times[0]
	if math.IsNaN(total) || math.IsNaN(dur) || total <= 0 || dur <= 0 {
		return nil
	}
	pace := dur / units.MetersToKm(total)
	return &pace
}

func toKmh(mps *float64) *float64 {
	if mps == nil {
		return nil
	}
	v := units.MpsToKmh(*mps)
	return &v
}
