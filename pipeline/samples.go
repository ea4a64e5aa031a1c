package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/lucasjlepore/trackexport"
)

var sampleColumns = []string{
	"activity_id", "sport", "ts_utc_iso", "latitude", "longitude", "altitude_m", "hr_bpm", "cadence_spm",
	"telemetry_matched", "cadence_interpolated",
}

// SampleRows flattens an enriched activity into artifact rows.
func SampleRows(track trackexport.ActivityTrack) []SampleRow {
	rows := make([]SampleRow, 0, len(track.Points))
	for _, p := range track.Points {
		rows = append(rows, SampleRow{
			ActivityID:   track.Activity.ID,
			Sport:        string(track.Sport),
			TSUTCISO:     trackexport.ISOTime(p.Time),
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			AltitudeM:    p.AltitudeM,
			HRBPM:        p.HeartRateBpm,
			CadenceSPM:   p.CadenceSPM,
			Matched:      p.Matched,
			Interpolated: p.Interpolated,
		})
	}
	return rows
}

func samplesFileName(format string) string {
	if format == SamplesCSV {
		return "samples.csv"
	}
	return "samples.parquet"
}

func writeSamples(path, format string, rows []SampleRow) error {
	switch format {
	case SamplesCSV:
		return writeSamplesCSV(path, rows)
	case SamplesParquet:
		return writeSamplesParquet(path, rows)
	default:
		return fmt.Errorf("unsupported samples format %q", format)
	}
}

func writeSamplesCSV(path string, rows []SampleRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleColumns); err != nil {
		return err
	}
	for _, r := range rows {
		row := []string{
			strconv.FormatInt(r.ActivityID, 10),
			r.Sport,
			r.TSUTCISO,
			r.Latitude,
			r.Longitude,
			formatFloatPtr(r.AltitudeM),
			formatIntPtr(r.HRBPM),
			formatIntPtr(r.CadenceSPM),
			strconv.FormatBool(r.Matched),
			strconv.FormatBool(r.Interpolated),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
