package trackexport

// Correlator resolves heart-rate/step telemetry for trackpoints by exact key.
// It is read-only after construction and safe for concurrent lookups.
type Correlator struct {
	samples map[int64]TelemetrySample
}

// NewCorrelator indexes samples by timestamp. When timestamps repeat, the first sample wins.
func NewCorrelator(samples []TelemetrySample) *Correlator {
	byTS := make(map[int64]TelemetrySample, len(samples))
	for _, s := range samples {
		if _, ok := byTS[s.TimestampMs]; ok {
			continue
		}
		byTS[s.TimestampMs] = s
	}
	return &Correlator{samples: byTS}
}

// Len returns the number of distinct telemetry timestamps.
func (c *Correlator) Len() int {
	return len(c.samples)
}

// Lookup returns the sample stored under CorrelationKey(activityID, trackpointTimestampMs).
// A miss is not an error.
func (c *Correlator) Lookup(activityID, trackpointTimestampMs int64) (TelemetrySample, bool) {
	s, ok := c.samples[CorrelationKey(activityID, trackpointTimestampMs)]
	return s, ok
}

// CorrelationKey is the activity id plus the trackpoint offset with its last three decimal
// digits dropped. The key only lands on telemetry when trackpoint timestamps are offsets
// from the activity start.
func CorrelationKey(activityID, trackpointTimestampMs int64) int64 {
	return activityID + truncateToSecond(trackpointTimestampMs)
}

func truncateToSecond(ms int64) int64 {
	return ms - ms%1000
}
