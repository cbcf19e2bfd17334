package units

import "fmt"

// NoData is the label used wherever a metric could not be derived.
const NoData = "n/a"

// FormatPace renders seconds-per-kilometre as "m:ss /km".
func FormatPace(secPerKm *float64) string {
	if secPerKm == nil {
		return NoData
	}
	total := int(*secPerKm + 0.5)
	return fmt.Sprintf("%d:%02d /km", total/60, total%60)
}

// FormatSpeed renders kilometres-per-hour with one decimal.
func FormatSpeed(kmh *float64) string {
	if kmh == nil {
		return NoData
	}
	return fmt.Sprintf("%.1f km/h", *kmh)
}

// FormatDuration renders seconds as "h:mm:ss", or "m:ss" under an hour.
func FormatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// MetersToKm converts a distance in meters to kilometres.
func MetersToKm(m float64) float64 {
	return m / 1000
}

// MpsToKmh converts meters-per-second to kilometres-per-hour.
func MpsToKmh(mps float64) float64 {
	return mps * 3.6
}
