package store

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tormoder/fit"

	"github.com/lucasjlepore/trackexport"
)

// FIT sessions are mapped onto the watch's type codes so both sources classify the same way.
const (
	fitCodeRunning   = 1
	fitCodeTrail     = 3
	fitCodeWalking   = 6
	fitCodeTreadmill = 8
	fitCodeCycling   = 9
	fitCodeIndoor    = 10
)

// ReadFITDir reads every *.fit file in dir and keeps activities at or after beginTime.
func ReadFITDir(dir string, beginTime int64) (*Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrUnreadableStore, dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return ReadFIT(beginTime, paths...)
}

// ReadFIT decodes the given activity files into one snapshot.
func ReadFIT(beginTime int64, paths ...string) (*Snapshot, error) {
	out := &Snapshot{}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrUnreadableStore, path, err)
		}
		snap, err := DecodeFIT(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnreadableStore, path, err)
		}
		if len(snap.Activities) == 0 || snap.Activities[0].ID < beginTime {
			continue
		}
		out.merge(snap)
	}
	return out, nil
}

// DecodeFIT converts one FIT activity into store rows. Trackpoint timestamps are
// offsets from the session start and telemetry is keyed the same way the watch keys it.
func DecodeFIT(r io.Reader) (*Snapshot, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode FIT file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity FIT expected: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("activity file has no session message")
	}
	session := activity.Sessions[0]

	start := validTimeOrZero(session.StartTime)
	if start.IsZero() {
		start = firstRecordTime(activity.Records)
	}
	if start.IsZero() {
		return &Snapshot{}, nil
	}
	end := validTimeOrZero(session.Timestamp)
	if end.IsZero() {
		end = start
	}

	a := trackexport.Activity{
		ID:        start.UnixMilli(),
		StartTime: start.UnixMilli(),
		EndTime:   end.UnixMilli(),
		TypeCode:  typeCodeForSport(session.Sport, session.SubSport),
	}
	if session.TotalCalories != math.MaxUint16 {
		a.CalorieMilliCal = int64(session.TotalCalories) * 1000
	}

	snap := &Snapshot{Activities: []trackexport.Activity{a}}
	for _, rec := range activity.Records {
		ts := validTimeOrZero(rec.Timestamp)
		if ts.IsZero() {
			continue
		}
		offset := ts.Sub(start).Milliseconds()
		if !rec.PositionLat.Invalid() && !rec.PositionLong.Invalid() {
			snap.Trackpoints = append(snap.Trackpoints, trackexport.Trackpoint{
				ActivityID:     a.ID,
				Latitude:       formatDegrees(rec.PositionLat.Degrees()),
				Longitude:      formatDegrees(rec.PositionLong.Degrees()),
				AltitudeMeters: recordAltitude(rec),
				TimestampMs:    offset,
			})
		}
		hr, hasHR := recordHeartRate(rec)
		steps, hasSteps := recordSteps(rec)
		if hasHR || hasSteps {
			snap.Telemetry = append(snap.Telemetry, trackexport.TelemetrySample{
				TimestampMs:  trackexport.CorrelationKey(a.ID, offset),
				HeartRateBpm: hr,
				StepCount:    steps,
			})
		}
	}
	return snap, nil
}

func typeCodeForSport(sport fit.Sport, sub fit.SubSport) *int {
	var code int
	switch sport {
	case fit.SportRunning:
		switch sub {
		case fit.SubSportTreadmill:
			code = fitCodeTreadmill
		case fit.SubSportTrail:
			code = fitCodeTrail
		default:
			code = fitCodeRunning
		}
	case fit.SportCycling:
		code = fitCodeCycling
		if sub == fit.SubSportIndoorCycling {
			code = fitCodeIndoor
		}
	case fit.SportWalking, fit.SportHiking:
		code = fitCodeWalking
	default:
		return nil
	}
	return &code
}

func recordAltitude(rec *fit.RecordMsg) float64 {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt
	}
	return trackexport.MinPlausibleAltitude
}

func recordHeartRate(rec *fit.RecordMsg) (int, bool) {
	if rec.HeartRate == math.MaxUint8 {
		return 0, false
	}
	return int(rec.HeartRate), true
}

// recordSteps converts a running cadence in strides per minute into steps per second,
// matching the watch's per-sample step counts.
func recordSteps(rec *fit.RecordMsg) (int, bool) {
	if rec.Cadence == math.MaxUint8 {
		return 0, false
	}
	return int(math.Round(float64(rec.Cadence) * 2 / 60)), true
}

func firstRecordTime(records []*fit.RecordMsg) time.Time {
	for _, rec := range records {
		if ts := validTimeOrZero(rec.Timestamp); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

func validTimeOrZero(t time.Time) time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return time.Time{}
	}
	return t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
