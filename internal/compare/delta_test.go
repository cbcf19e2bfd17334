package compare

import (
	"math"
	"testing"

	"backend-pacewatch/internal/splits"
	"backend-pacewatch/internal/store"
)

func ptr(v float64) *float64 { return &v }

func TestModeFor(t *testing.T) {
	cases := map[string]splits.Mode{
		"Run":        splits.ModePace,
		"TrailRun":   splits.ModePace,
		"Walk":       splits.ModePace,
		"Hike":       splits.ModePace,
		"Ride":       splits.ModeSpeed,
		"Swim":       splits.ModeSpeed,
		"VirtualRun": splits.ModePace,
	}
	for typ, want := range cases {
		if got := ModeFor(store.Activity{Type: typ}); got != want {
			t.Fatalf("ModeFor(%s) = %v, want %v", typ, got, want)
		}
	}
	// Sub-type counts too.
	if got := ModeFor(store.Activity{Type: "Workout", SportType: "Run"}); got != splits.ModePace {
		t.Fatalf("expected sub-type to select pace mode")
	}
}

func TestCompareNilMatch(t *testing.T) {
	if got := Compare(store.Record{}, nil); got != nil {
		t.Fatalf("expected nil comparison for nil match")
	}
}

func TestComparePaceDelta(t *testing.T) {
	current := store.Record{Activity: store.Activity{
		ID: 1, Type: "Run", Distance: 10000, MovingTime: 3600,
	}}
	prior := store.Record{Activity: store.Activity{
		ID: 2, Type: "Run", Distance: 10000, MovingTime: 3660,
		StartDateLocal: "2024-05-10T07:00:00Z",
	}}

	c := Compare(current, &prior)
	if c == nil {
		t.Fatalf("expected comparison")
	}
	if c.Mode != splits.ModePace {
		t.Fatalf("expected pace mode")
	}
	if c.MatchedID != 2 || c.MatchedStart != "2024-05-10T07:00:00Z" {
		t.Fatalf("unexpected match metadata: %+v", c)
	}

	// 3600s/10km vs 3660s/10km: current is 6 s/km faster, so the pace
	// delta is negative.
	want := 3600.0/10 - 3660.0/10
	if c.Deltas.PaceOrSpeed == nil || math.Abs(*c.Deltas.PaceOrSpeed-want) > 1e-9 {
		t.Fatalf("unexpected pace delta: %v, want %v", c.Deltas.PaceOrSpeed, want)
	}
	if *c.Deltas.PaceOrSpeed >= 0 {
		t.Fatalf("faster current run must yield a negative pace delta")
	}
	if c.Deltas.MovingTime == nil || *c.Deltas.MovingTime != -60 {
		t.Fatalf("unexpected moving time delta: %v", c.Deltas.MovingTime)
	}
	if c.Deltas.PaceOrSpeedPct == nil {
		t.Fatalf("expected a pace percentage")
	}
}

func TestCompareSpeedMode(t *testing.T) {
	current := store.Record{Activity: store.Activity{
		ID: 1, Type: "Ride", Distance: 40000, MovingTime: 4800, AverageSpeed: 8.5,
	}}
	prior := store.Record{Activity: store.Activity{
		ID: 2, Type: "Ride", Distance: 40000, MovingTime: 5000, AverageSpeed: 8.0,
	}}

	c := Compare(current, &prior)
	if c == nil || c.Mode != splits.ModeSpeed {
		t.Fatalf("expected speed mode comparison")
	}
	// 8.5 m/s vs 8.0 m/s: faster current ride, positive speed delta.
	if c.Deltas.PaceOrSpeed == nil || *c.Deltas.PaceOrSpeed <= 0 {
		t.Fatalf("faster current ride must yield a positive speed delta, got %v", c.Deltas.PaceOrSpeed)
	}
}

func TestComparePrefersStreamMetrics(t *testing.T) {
	current := store.Record{
		Activity: store.Activity{ID: 1, Type: "Run", AverageHeartrate: ptr(150)},
		Derived:  store.Derived{HRAvg: ptr(155)},
	}
	prior := store.Record{
		Activity: store.Activity{ID: 2, Type: "Run", AverageHeartrate: ptr(149)},
	}

	c := Compare(current, &prior)
	if c == nil || c.Deltas.HRAvg == nil {
		t.Fatalf("expected HR delta")
	}
	// Stream-derived 155 beats reported 150; prior falls back to reported.
	if *c.Deltas.HRAvg != 6 {
		t.Fatalf("unexpected HR delta: %v", *c.Deltas.HRAvg)
	}
}

func TestCompareUnknownSidesAreNil(t *testing.T) {
	current := store.Record{Activity: store.Activity{ID: 1, Type: "Run"}}
	prior := store.Record{Activity: store.Activity{ID: 2, Type: "Run"}}

	c := Compare(current, &prior)
	if c == nil {
		t.Fatalf("expected comparison")
	}
	if c.Deltas.Distance != nil || c.Deltas.PaceOrSpeed != nil ||
		c.Deltas.HRAvg != nil || c.Deltas.HRMax != nil || c.Deltas.PowerAvg != nil {
		t.Fatalf("expected nil deltas when metrics are unknown: %+v", c.Deltas)
	}
}

func TestComparePowerPct(t *testing.T) {
	current := store.Record{
		Activity: store.Activity{ID: 1, Type: "Ride", AverageSpeed: 8},
		Derived:  store.Derived{PowerAvg: ptr(220)},
	}
	prior := store.Record{
		Activity: store.Activity{ID: 2, Type: "Ride", AverageSpeed: 8},
		Derived:  store.Derived{PowerAvg: ptr(200)},
	}

	c := Compare(current, &prior)
	if c == nil || c.Deltas.PowerAvg == nil || *c.Deltas.PowerAvg != 20 {
		t.Fatalf("unexpected power delta: %+v", c)
	}
	if c.Deltas.PowerAvgPct == nil || *c.Deltas.PowerAvgPct != 10 {
		t.Fatalf("unexpected power pct: %v", c.Deltas.PowerAvgPct)
	}
}
