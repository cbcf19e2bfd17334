package strava

import "math"

// Stream is one raw sample array as the provider ships it: values may be
// null where the sensor dropped out.
type Stream struct {
	Data []*float64 `json:"data"`
}

// StreamSet maps stream name (distance, time, heartrate, watts,
// velocity_smooth, cadence, ...) to its samples. Absent keys mean the
// metric was not recorded.
type StreamSet map[string]Stream

// Floats returns the named stream with nulls replaced by NaN, the hole
// representation the analysis layer expects. Nil when the stream is absent.
func (s StreamSet) Floats(name string) []float64 {
	stream, ok := s[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(stream.Data))
	for i, v := range stream.Data {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	return out
}

// Zone is a provider zone summary, passed through for display only.
type Zone struct {
	Type                string   `json:"type"`
	DistributionBuckets []Bucket `json:"distribution_buckets"`
}

type Bucket struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Time float64 `json:"time"`
}
