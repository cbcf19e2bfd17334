package stats

import "math"

// Summary holds the average and maximum of the finite entries of a sample
// array. Both fields are nil when the array contained no finite entries.
type Summary struct {
	Avg *float64
	Max *float64
}

// Summarize aggregates a sensor sample array. Non-finite entries (the
// stream decoder writes NaN where a sample is absent) are skipped rather
// than treated as errors, since real-world streams have gaps.
func Summarize(samples []float64) Summary {
	var (
		sum   float64
		max   float64
		count int
	)
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if count == 0 || v > max {
			max = v
		}
		sum += v
		count++
	}
	if count == 0 {
		return Summary{}
	}
	avg := sum / float64(count)
	maxCopy := max
	return Summary{Avg: &avg, Max: &maxCopy}
}
