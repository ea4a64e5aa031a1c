package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/lucasjlepore/trackexport"
)

const (
	activitiesQuery = `SELECT track_id, start_time, end_time, calorie, type
		FROM sport_summary
		WHERE track_id >= ? AND (type BETWEEN 1 AND 15)
		ORDER BY track_id`
	trackpointsQuery = `SELECT track_id, CAST(latitude AS TEXT), CAST(longitude AS TEXT), altitude, timestamp
		FROM location_data
		WHERE track_id >= ? AND point_type > 0`
	telemetryQuery = `SELECT time, rate, step_count
		FROM heart_rate
		WHERE time >= ?`
)

// SQLiteStore reads the watch's sport database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// SQLiteDSN returns a read-only file URI for path.
func SQLiteDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

// OpenSQLite opens the database at path read-only and verifies it can be reached.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn, err := SQLiteDSN(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %w", ErrUnreadableStore, path, err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnreadableStore, path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrUnreadableStore, path, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Snapshot reads every activity, trackpoint and telemetry row at or after beginTime.
func (s *SQLiteStore) Snapshot(ctx context.Context, beginTime int64) (*Snapshot, error) {
	activities, err := s.activities(ctx, beginTime)
	if err != nil {
		return nil, fmt.Errorf("%w: read activities: %w", ErrUnreadableStore, err)
	}
	trackpoints, err := s.trackpoints(ctx, beginTime)
	if err != nil {
		return nil, fmt.Errorf("%w: read trackpoints: %w", ErrUnreadableStore, err)
	}
	telemetry, err := s.telemetry(ctx, beginTime)
	if err != nil {
		return nil, fmt.Errorf("%w: read heart rate: %w", ErrUnreadableStore, err)
	}
	return &Snapshot{Activities: activities, Trackpoints: trackpoints, Telemetry: telemetry}, nil
}

func (s *SQLiteStore) activities(ctx context.Context, beginTime int64) ([]trackexport.Activity, error) {
	rows, err := s.db.QueryContext(ctx, activitiesQuery, beginTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trackexport.Activity
	for rows.Next() {
		var (
			a       trackexport.Activity
			calorie sql.NullFloat64
			typ     sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.StartTime, &a.EndTime, &calorie, &typ); err != nil {
			return nil, err
		}
		a.CalorieMilliCal = int64(calorie.Float64)
		if typ.Valid {
			code := int(typ.Int64)
			a.TypeCode = &code
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) trackpoints(ctx context.Context, beginTime int64) ([]trackexport.Trackpoint, error) {
	rows, err := s.db.QueryContext(ctx, trackpointsQuery, beginTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trackexport.Trackpoint
	for rows.Next() {
		var (
			tp       trackexport.Trackpoint
			lat, lon sql.NullString
			altitude sql.NullFloat64
		)
		if err := rows.Scan(&tp.ActivityID, &lat, &lon, &altitude, &tp.TimestampMs); err != nil {
			return nil, err
		}
		tp.Latitude = lat.String
		tp.Longitude = lon.String
		tp.AltitudeMeters = trackexport.MinPlausibleAltitude
		if altitude.Valid {
			tp.AltitudeMeters = altitude.Float64
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) telemetry(ctx context.Context, beginTime int64) ([]trackexport.TelemetrySample, error) {
	rows, err := s.db.QueryContext(ctx, telemetryQuery, beginTime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trackexport.TelemetrySample
	for rows.Next() {
		var (
			ts          int64
			rate, steps sql.NullInt64
		)
		if err := rows.Scan(&ts, &rate, &steps); err != nil {
			return nil, err
		}
		out = append(out, trackexport.TelemetrySample{
			TimestampMs:  ts,
			HeartRateBpm: int(rate.Int64),
			StepCount:    int(steps.Int64),
		})
	}
	return out, rows.Err()
}
