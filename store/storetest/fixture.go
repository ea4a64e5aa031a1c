// Package storetest writes small watch databases for tests.
package storetest

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE sport_summary (track_id INTEGER PRIMARY KEY, start_time INTEGER, end_time INTEGER, calorie REAL, type INTEGER);
CREATE TABLE location_data (track_id INTEGER, latitude REAL, longitude REAL, altitude REAL, timestamp INTEGER, point_type INTEGER);
CREATE TABLE heart_rate (time INTEGER, rate INTEGER, step_count INTEGER);
`

// Summary is one sport_summary row.
type Summary struct {
	TrackID, Start, End int64
	Calorie             float64
	Type                int
}

// Location is one location_data row.
type Location struct {
	TrackID       int64
	Lat, Lon, Alt float64
	Timestamp     int64
	PointType     int
}

// HeartRate is one heart_rate row.
type HeartRate struct {
	Time        int64
	Rate, Steps int
}

// Fixture is the full content of a test database.
type Fixture struct {
	Summaries []Summary
	Locations []Location
	Rates     []HeartRate
}

// Write creates the database at path and fills it with f.
func Write(tb testing.TB, path string, f Fixture) {
	tb.Helper()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		tb.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	for _, s := range f.Summaries {
		if _, err := db.Exec(`INSERT INTO sport_summary VALUES (?, ?, ?, ?, ?)`, s.TrackID, s.Start, s.End, s.Calorie, s.Type); err != nil {
			tb.Fatalf("insert summary: %v", err)
		}
	}
	for _, l := range f.Locations {
		if _, err := db.Exec(`INSERT INTO location_data VALUES (?, ?, ?, ?, ?, ?)`, l.TrackID, l.Lat, l.Lon, l.Alt, l.Timestamp, l.PointType); err != nil {
			tb.Fatalf("insert location: %v", err)
		}
	}
	for _, r := range f.Rates {
		if _, err := db.Exec(`INSERT INTO heart_rate VALUES (?, ?, ?)`, r.Time, r.Rate, r.Steps); err != nil {
			tb.Fatalf("insert heart rate: %v", err)
		}
	}
}

// Run returns a fixture with one running activity starting at start: three GPS points
// one second apart, telemetry for the first two, and one invalid point.
func Run(start int64) Fixture {
	return Fixture{
		Summaries: []Summary{{TrackID: start, Start: start, End: start + 600_000, Calorie: 45_500, Type: 1}},
		Locations: []Location{
			{TrackID: start, Lat: 48.1372, Lon: 11.5755, Alt: 520, Timestamp: 1000, PointType: 1},
			{TrackID: start, Lat: 48.1373, Lon: 11.5756, Alt: -25, Timestamp: 2000, PointType: 1},
			{TrackID: start, Lat: 48.1374, Lon: 11.5757, Alt: 521.5, Timestamp: 3000, PointType: 1},
			{TrackID: start, Lat: 0, Lon: 0, Alt: 0, Timestamp: 3500, PointType: 0},
		},
		Rates: []HeartRate{
			{Time: start + 1000, Rate: 140, Steps: 3},
			{Time: start + 2000, Rate: 0, Steps: 3},
		},
	}
}

// Merge concatenates fixtures.
func Merge(fs ...Fixture) Fixture {
	var out Fixture
	for _, f := range fs {
		out.Summaries = append(out.Summaries, f.Summaries...)
		out.Locations = append(out.Locations, f.Locations...)
		out.Rates = append(out.Rates, f.Rates...)
	}
	return out
}
