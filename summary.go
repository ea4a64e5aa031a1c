package trackexport

import (
	"fmt"
	"math"
	"strings"
)

// Summary holds per-activity aggregates over the enriched trackpoints.
type Summary struct {
	ElapsedSeconds int64   `json:"elapsed_seconds"`
	Calories       int64   `json:"calories"`
	Trackpoints    int     `json:"trackpoints"`
	AvgHeartRate   float64 `json:"avg_heart_rate_bpm"`
	MaxHeartRate   float64 `json:"max_heart_rate_bpm"`
	AvgCadence     float64 `json:"avg_cadence_spm"`
	MaxCadence     float64 `json:"max_cadence_spm"`
	ElevationGainM float64 `json:"elevation_gain_m"`
	ElevationLossM float64 `json:"elevation_loss_m"`
}

// Summarize aggregates the values that made it into the exported documents.
// Omitted altitude, heart-rate and cadence values do not count.
func Summarize(track ActivityTrack) Summary {
	s := Summary{
		ElapsedSeconds: track.Activity.ElapsedSeconds(),
		Calories:       track.Activity.Calories(),
		Trackpoints:    len(track.Points),
	}

	var (
		hr, cad  []float64
		lastAlt  float64
		haveLast bool
	)
	for _, p := range track.Points {
		if p.HeartRateBpm != nil {
			hr = append(hr, float64(*p.HeartRateBpm))
		}
		if p.CadenceSPM != nil {
			cad = append(cad, float64(*p.CadenceSPM))
		}
		if p.AltitudeM == nil {
			continue
		}
		if haveLast {
			delta := *p.AltitudeM - lastAlt
			if delta > 0 {
				s.ElevationGainM += delta
			} else {
				s.ElevationLossM -= delta
			}
		}
		lastAlt = *p.AltitudeM
		haveLast = true
	}

	s.AvgHeartRate = average(hr)
	s.MaxHeartRate = maxValue(hr)
	s.AvgCadence = average(cad)
	s.MaxCadence = maxValue(cad)
	return s
}

// Note renders a one-line description, e.g. "Running 30m05s | 312 kcal | HR 148/171 | +34/-30 m".
func (s Summary) Note(sport Sport) string {
	parts := []string{
		fmt.Sprintf("%s %s", sport, formatDuration(float64(s.ElapsedSeconds))),
		fmt.Sprintf("%d kcal", s.Calories),
	}
	if s.AvgHeartRate > 0 {
		parts = append(parts, fmt.Sprintf("HR %.0f/%.0f", s.AvgHeartRate, s.MaxHeartRate))
	}
	if s.AvgCadence > 0 {
		parts = append(parts, fmt.Sprintf("cadence %.0f spm", s.AvgCadence))
	}
	if s.ElevationGainM > 0 || s.ElevationLossM > 0 {
		parts = append(parts, fmt.Sprintf("+%.0f/-%.0f m", s.ElevationGainM, s.ElevationLossM))
	}
	return strings.Join(parts, " | ")
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func maxValue(values []float64) float64 {
	max := 0.0
	for i, v := range values {
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}
