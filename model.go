package trackexport

import "time"

// Activity is one recorded exercise session from the activity store.
// ID is the start time in epoch milliseconds and doubles as the sort key.
type Activity struct {
	ID              int64 `json:"id"`
	StartTime       int64 `json:"start_time"`
	EndTime         int64 `json:"end_time"`
	CalorieMilliCal int64 `json:"calorie_millical"`
	TypeCode        *int  `json:"type_code,omitempty"`
}

// ElapsedSeconds returns the activity duration truncated to whole seconds.
func (a Activity) ElapsedSeconds() int64 {
	return (a.EndTime - a.StartTime) / 1000
}

// Calories returns the energy in kcal, truncated.
func (a Activity) Calories() int64 {
	return a.CalorieMilliCal / 1000
}

// Trackpoint is one GPS sample. TimestampMs is an offset from the activity start,
// not an absolute epoch time.
type Trackpoint struct {
	ActivityID     int64   `json:"activity_id"`
	Latitude       string  `json:"latitude"`
	Longitude      string  `json:"longitude"`
	AltitudeMeters float64 `json:"altitude_m"`
	TimestampMs    int64   `json:"timestamp_ms"`
}

// TelemetrySample is one heart-rate / step-count reading keyed by its timestamp.
type TelemetrySample struct {
	TimestampMs  int64 `json:"timestamp_ms"`
	HeartRateBpm int   `json:"hr_bpm"`
	StepCount    int   `json:"step_count"`
}

// EnrichedTrackpoint is a trackpoint with filtered altitude and correlated telemetry.
// Nil pointer fields are omitted from every output document.
type EnrichedTrackpoint struct {
	Latitude     string
	Longitude    string
	AltitudeM    *float64
	Time         time.Time
	HeartRateBpm *int
	CadenceSPM   *int

	// Matched reports whether a telemetry sample was found, independent of its validity.
	Matched bool
	// Interpolated reports a cadence value carried forward across a telemetry gap.
	Interpolated bool
}

// ActivityTrack is the unit both emitters consume.
type ActivityTrack struct {
	Activity Activity
	Sport    Sport
	Points   []EnrichedTrackpoint
}

// Watermark is the highest activity id exported by a run.
type Watermark int64

// NothingExported is returned when a run exported no activities. It is distinct from
// a watermark of zero.
const NothingExported Watermark = -1

// Exported reports whether the watermark refers to a real activity id.
func (w Watermark) Exported() bool {
	return w != NothingExported
}

// UTCFromMillis converts epoch milliseconds to a UTC instant, truncating sub-second precision.
func UTCFromMillis(ms int64) time.Time {
	return time.Unix(ms/1000, 0).UTC()
}

// ISOTime formats an instant the way both documents identify activities and samples.
func ISOTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + "Z"
}
