package trackexport

// MinPlausibleAltitude is the exclusive lower bound for exported altitude values.
// Readings at or below it are sensor noise.
const MinPlausibleAltitude = -20.0

// EnrichStats counts correlation results for one activity.
type EnrichStats struct {
	Trackpoints  int `json:"trackpoints"`
	Matched      int `json:"telemetry_matched"`
	Missed       int `json:"telemetry_missed"`
	Interpolated int `json:"cadence_interpolated"`
}

// HitRate returns the fraction of trackpoints that found a telemetry sample.
func (s EnrichStats) HitRate() float64 {
	if s.Trackpoints == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Trackpoints)
}

// Enricher turns raw trackpoints into EnrichedTrackpoints.
type Enricher struct {
	correlator *Correlator
}

// NewEnricher returns an Enricher backed by the given correlator.
func NewEnricher(c *Correlator) *Enricher {
	return &Enricher{correlator: c}
}

// Enrich builds one enriched record. est may be nil for sports without cadence.
func (e *Enricher) Enrich(activity Activity, sport Sport, tp Trackpoint, est *CadenceEstimator) EnrichedTrackpoint {
	out := EnrichedTrackpoint{
		Latitude:  tp.Latitude,
		Longitude: tp.Longitude,
		Time:      UTCFromMillis(CorrelationKey(activity.ID, tp.TimestampMs)),
	}
	if tp.AltitudeMeters > MinPlausibleAltitude {
		alt := tp.AltitudeMeters
		out.AltitudeM = &alt
	}

	var sample *TelemetrySample
	if s, ok := e.correlator.Lookup(activity.ID, tp.TimestampMs); ok {
		sample = &s
		out.Matched = true
		if s.HeartRateBpm > 0 {
			hr := s.HeartRateBpm
			out.HeartRateBpm = &hr
		}
	}

	if est != nil && sport == SportRunning {
		if cad, ok := est.Next(sport, sample); ok {
			out.CadenceSPM = &cad
			out.Interpolated = sample == nil
		}
	}
	return out
}

// EnrichActivity resets est and enriches points in order.
func (e *Enricher) EnrichActivity(activity Activity, points []Trackpoint, est *CadenceEstimator) (ActivityTrack, EnrichStats) {
	sport := Classify(activity.TypeCode)
	if est != nil {
		est.Reset()
	}

	track := ActivityTrack{
		Activity: activity,
		Sport:    sport,
		Points:   make([]EnrichedTrackpoint, 0, len(points)),
	}
	var stats EnrichStats
	for _, tp := range points {
		ep := e.Enrich(activity, sport, tp, est)
		track.Points = append(track.Points, ep)

		stats.Trackpoints++
		if ep.Matched {
			stats.Matched++
		} else {
			stats.Missed++
		}
		if ep.Interpolated {
			stats.Interpolated++
		}
	}
	return track, stats
}
