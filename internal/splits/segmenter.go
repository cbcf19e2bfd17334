package splits

import (
	"math"

	"backend-pacewatch/internal/shared/units"
	"backend-pacewatch/internal/stats"
)

// SegmentMeters is the fixed split length.
const SegmentMeters = 1000.0

// Build walks the aligned sample arrays and emits one Split per full
// kilometre. Distance and time are cumulative, so a segment's distance and
// elapsed time are boundary differences, not sums. Leftover samples that
// never reach the next kilometre threshold produce no split.
//
// Missing or length-mismatched distance/time arrays yield an empty list:
// zero splits means "insufficient data", never an error.
func Build(s Streams, mode Mode) []Split {
	dist, times := s.Distance, s.Time
	if len(dist) == 0 || len(dist) != len(times) {
		return nil
	}

	hr := alignedOrNil(s.Heartrate, len(dist))
	watts := alignedOrNil(s.Watts, len(dist))

	var out []Split
	start := -1
	threshold := SegmentMeters

	for i := range dist {
		// Holes in the stream decode as NaN; a hole can neither open nor
		// close a segment.
		if !finite(dist[i]) || !finite(times[i]) {
			continue
		}
		if start < 0 {
			start = i
		}
		if dist[i] < threshold {
			continue
		}

		sp := Split{
			Index:    len(out) + 1,
			Mode:     mode,
			Distance: dist[i] - dist[start],
			Time:     times[i] - times[start],
		}
		if sp.Distance > 0 && sp.Time > 0 {
			pace := sp.Time / (sp.Distance / 1000)
			speed := units.MpsToKmh(sp.Distance / sp.Time)
			sp.Pace = &pace
			sp.Speed = &speed
		}
		if hr != nil {
			sum := stats.Summarize(hr[start : i+1])
			sp.HRAvg, sp.HRMax = sum.Avg, sum.Max
		}
		if watts != nil {
			sp.PowerAvg = stats.Summarize(watts[start : i+1]).Avg
		}
		sp.Label = label(sp)

		out = append(out, sp)
		start = i
		threshold += SegmentMeters
	}
	return out
}

func label(sp Split) string {
	if sp.Mode == ModeSpeed {
		return units.FormatSpeed(sp.Speed)
	}
	return units.FormatPace(sp.Pace)
}

// alignedOrNil treats an optional metric array as absent unless it lines up
// sample-for-sample with the distance array.
func alignedOrNil(arr []float64, want int) []float64 {
	if len(arr) != want {
		return nil
	}
	return arr
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
