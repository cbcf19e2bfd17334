package splits

import (
	"encoding/json"
	"math"
	"testing"
)

// ramp builds cumulative distance/time arrays with a fixed step per sample.
func ramp(n int, distStep, timeStep float64) ([]float64, []float64) {
	dist := make([]float64, n)
	times := make([]float64, n)
	for i := 1; i < n; i++ {
		dist[i] = dist[i-1] + distStep
		times[i] = times[i-1] + timeStep
	}
	return dist, times
}

func TestBuildSplitCount(t *testing.T) {
	// 105 samples of 100 m = 10.4 km total; expect floor(10.4) = 10 splits.
	dist, times := ramp(105, 100, 30)
	got := Build(Streams{Distance: dist, Time: times}, ModePace)
	if len(got) != 10 {
		t.Fatalf("expected 10 splits, got %d", len(got))
	}
	for i, sp := range got {
		if sp.Index != i+1 {
			t.Fatalf("ordinal gap at %d: index %d", i, sp.Index)
		}
		if sp.Distance < SegmentMeters {
			t.Fatalf("split %d shorter than a full segment: %v", sp.Index, sp.Distance)
		}
	}
}

func TestBuildPaceAndSpeed(t *testing.T) {
	// 100 m every 30 s = 300 s/km = 12 km/h.
	dist, times := ramp(11, 100, 30)
	got := Build(Streams{Distance: dist, Time: times}, ModePace)
	if len(got) != 1 {
		t.Fatalf("expected 1 split, got %d", len(got))
	}
	sp := got[0]
	if sp.Pace == nil || math.Abs(*sp.Pace-300) > 1e-9 {
		t.Fatalf("unexpected pace: %v", sp.Pace)
	}
	if sp.Speed == nil || math.Abs(*sp.Speed-12) > 1e-9 {
		t.Fatalf("unexpected speed: %v", sp.Speed)
	}
	if sp.Label != "5:00 /km" {
		t.Fatalf("unexpected label: %q", sp.Label)
	}
}

func TestBuildSpeedModeLabel(t *testing.T) {
	dist, times := ramp(11, 100, 12)
	got := Build(Streams{Distance: dist, Time: times}, ModeSpeed)
	if len(got) != 1 {
		t.Fatalf("expected 1 split, got %d", len(got))
	}
	if got[0].Label != "30.0 km/h" {
		t.Fatalf("unexpected label: %q", got[0].Label)
	}
}

func TestBuildIgnoresPartialFinalSegment(t *testing.T) {
	// Exactly 1 km then 900 m more: only the first kilometre closes.
	dist, times := ramp(20, 100, 30)
	got := Build(Streams{Distance: dist, Time: times}, ModePace)
	if len(got) != 1 {
		t.Fatalf("expected 1 split, got %d", len(got))
	}
}

func TestBuildMissingOrMismatchedArrays(t *testing.T) {
	if got := Build(Streams{}, ModePace); len(got) != 0 {
		t.Fatalf("expected no splits for empty streams")
	}
	dist, times := ramp(11, 100, 30)
	if got := Build(Streams{Distance: dist, Time: times[:5]}, ModePace); len(got) != 0 {
		t.Fatalf("expected no splits for mismatched time array")
	}
	if got := Build(Streams{Distance: dist}, ModePace); len(got) != 0 {
		t.Fatalf("expected no splits without a time array")
	}
}

func TestBuildOptionalStreams(t *testing.T) {
	dist, times := ramp(11, 100, 30)
	hr := make([]float64, 11)
	for i := range hr {
		hr[i] = 140 + float64(i)
	}
	got := Build(Streams{Distance: dist, Time: times, Heartrate: hr}, ModePace)
	if len(got) != 1 {
		t.Fatalf("expected 1 split, got %d", len(got))
	}
	if got[0].HRAvg == nil || got[0].HRMax == nil {
		t.Fatalf("expected HR stats")
	}
	if *got[0].HRMax != 150 {
		t.Fatalf("unexpected max HR: %v", *got[0].HRMax)
	}
	if got[0].PowerAvg != nil {
		t.Fatalf("expected nil power without watts stream")
	}

	// Misaligned HR array is treated as absent.
	got = Build(Streams{Distance: dist, Time: times, Heartrate: hr[:4]}, ModePace)
	if got[0].HRAvg != nil {
		t.Fatalf("expected nil HR for misaligned stream")
	}
}

func TestBuildSkipsNonFiniteSamples(t *testing.T) {
	// A sensor dropout leaves NaN holes in the cumulative arrays; the
	// scan must step over them without closing a bogus split.
	dist := []float64{0, 250, math.NaN(), 750, 1000, 1250}
	times := []float64{0, 75, math.NaN(), 225, 300, 375}
	got := Build(Streams{Distance: dist, Time: times}, ModePace)
	if len(got) != 1 {
		t.Fatalf("expected 1 split, got %d", len(got))
	}
	if got[0].Distance != 1000 || got[0].Time != 300 {
		t.Fatalf("unexpected split boundaries: %v / %v", got[0].Distance, got[0].Time)
	}
	if got[0].Pace == nil || math.IsNaN(*got[0].Pace) {
		t.Fatalf("expected a finite pace, got %v", got[0].Pace)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("splits must stay marshalable: %v", err)
	}

	// A hole at the head must not poison the first segment's boundary.
	dist = []float64{math.NaN(), 100, 600, 1100}
	times = []float64{math.NaN(), 30, 180, 330}
	got = Build(Streams{Distance: dist, Time: times}, ModePace)
	if len(got) != 1 {
		t.Fatalf("expected 1 split, got %d", len(got))
	}
	if math.IsNaN(got[0].Distance) || math.IsNaN(got[0].Time) {
		t.Fatalf("split boundaries must be finite: %+v", got[0])
	}
}

func TestBuildZeroTimeSegment(t *testing.T) {
	dist := []float64{0, 1000, 2000}
	times := []float64{0, 300, 300}
	got := Build(Streams{Distance: dist, Time: times}, ModePace)
	if len(got) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(got))
	}
	if got[1].Pace != nil || got[1].Speed != nil {
		t.Fatalf("expected nil pace/speed for zero-time segment")
	}
	if got[1].Label != "n/a" {
		t.Fatalf("unexpected label: %q", got[1].Label)
	}
}
