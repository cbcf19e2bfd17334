package coach

import (
	"fmt"
	"strings"

	"backend-pacewatch/internal/compare"
	"backend-pacewatch/internal/shared/units"
	"backend-pacewatch/internal/splits"
	"backend-pacewatch/internal/store"
	"backend-pacewatch/internal/strava"
)

// ComposeMessage renders the chat summary for one processed activity:
// headline, splits, pacing verdict, zone passthrough, and the week-over-week
// comparison when one exists.
func ComposeMessage(rec store.Record, verdict *splits.Verdict, zones []strava.Zone, cmp *compare.Comparison) string {
	var b strings.Builder

	a := rec.Activity
	fmt.Fprintf(&b, "%s (%s)\n", a.Name, a.Type)
	fmt.Fprintf(&b, "%.2f km in %s", units.MetersToKm(a.Distance), units.FormatDuration(a.MovingTime))
	if rec.Derived.Mode == splits.ModePace {
		fmt.Fprintf(&b, " — %s", units.FormatPace(rec.Derived.AvgPace))
	} else {
		fmt.Fprintf(&b, " — %s", units.FormatSpeed(rec.Derived.SpeedAvg))
	}
	b.WriteString("\n")

	if len(rec.Derived.Splits) > 0 {
		b.WriteString("\nSplits:\n")
		for _, sp := range rec.Derived.Splits {
			fmt.Fprintf(&b, "  km %d: %s", sp.Index, sp.Label)
			if sp.HRAvg != nil {
				fmt.Fprintf(&b, " (%.0f bpm)", *sp.HRAvg)
			}
			b.WriteString("\n")
		}
	}

	if verdict != nil {
		fmt.Fprintf(&b, "Pacing: %s\n", *verdict)
	}

	if line := zoneLine(zones); line != "" {
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + comparisonLines(cmp))
	return b.String()
}

// zoneLine passes the provider's HR zone buckets through for display; this
// service never analyzes them.
func zoneLine(zones []strava.Zone) string {
	for _, z := range zones {
		if z.Type != "heartrate" || len(z.DistributionBuckets) == 0 {
			continue
		}
		parts := make([]string, 0, len(z.DistributionBuckets))
		for i, bucket := range z.DistributionBuckets {
			parts = append(parts, fmt.Sprintf("Z%d %s", i+1, units.FormatDuration(bucket.Time)))
		}
		return "HR zones: " + strings.Join(parts, " | ")
	}
	return ""
}

func comparisonLines(cmp *compare.Comparison) string {
	if cmp == nil {
		return "No comparable activity from last week.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "vs %s:\n", shortDate(cmp.MatchedStart))

	d := cmp.Deltas
	if d.PaceOrSpeed != nil {
		b.WriteString("  " + effortLine(cmp.Mode, *d.PaceOrSpeed, d.PaceOrSpeedPct) + "\n")
	}
	if d.Distance != nil {
		fmt.Fprintf(&b, "  distance %+.2f km\n", units.MetersToKm(*d.Distance))
	}
	if d.MovingTime != nil {
		fmt.Fprintf(&b, "  moving time %+.0f s\n", *d.MovingTime)
	}
	if d.ElevationGain != nil && *d.ElevationGain != 0 {
		fmt.Fprintf(&b, "  elevation %+.0f m\n", *d.ElevationGain)
	}
	if d.HRAvg != nil {
		fmt.Fprintf(&b, "  avg HR %+.0f bpm\n", *d.HRAvg)
	}
	if d.PowerAvg != nil {
		fmt.Fprintf(&b, "  avg power %+.0f W\n", *d.PowerAvg)
	}
	return b.String()
}

// effortLine spells out the mode-dependent sign convention: a negative pace
// delta and a positive speed delta both mean "faster".
func effortLine(mode splits.Mode, diff float64, pctDiff *float64) string {
	faster := diff > 0
	unit := "km/h"
	if mode == splits.ModePace {
		faster = diff < 0
		unit = "s/km"
	}

	word := "slower"
	if faster {
		word = "faster"
	}
	if diff == 0 {
		word = "unchanged"
	}

	line := fmt.Sprintf("%+.1f %s (%s)", diff, unit, word)
	if pctDiff != nil {
		line += fmt.Sprintf(" [%+.1f%%]", *pctDiff)
	}
	return line
}

func shortDate(start string) string {
	if len(start) >= 10 {
		return start[:10]
	}
	return start
}
