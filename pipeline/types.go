package pipeline

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lucasjlepore/trackexport"
)

// Source kinds accepted by Options.Source.
const (
	SourceSQLite = "sqlite"
	SourceFIT    = "fit"
)

// Sample artifact formats accepted by Options.SamplesFormat.
const (
	SamplesParquet = "parquet"
	SamplesCSV     = "csv"
	SamplesNone    = "none"
)

// Options configures one export run.
type Options struct {
	StorePath     string // sqlite database file or directory of FIT files
	Source        string // sqlite|fit
	OutDir        string
	WatermarkPath string // defaults to <OutDir>/lstupd.txt
	Resync        bool
	BeginTime     *int64 // overrides the watermark file when set
	SamplesFormat string // parquet|csv|none
	MetricsPath   string
	CadenceWindow int
	Logger        logrus.FieldLogger
}

// Result summarizes an export run.
type Result struct {
	RunID            string                `json:"run_id"`
	OutputDir        string                `json:"output_dir"`
	ManifestPath     string                `json:"manifest_path,omitempty"`
	SamplesPath      string                `json:"samples_path,omitempty"`
	MetricsPath      string                `json:"metrics_path,omitempty"`
	WatermarkPath    string                `json:"watermark_path"`
	WatermarkWritten bool                  `json:"watermark_written"`
	BeginTime        int64                 `json:"begin_time"`
	Watermark        trackexport.Watermark `json:"watermark"`
	Activities       []ActivityReport      `json:"activities"`
}

// ActivityReport describes one exported activity.
type ActivityReport struct {
	ID       int64                   `json:"id"`
	Start    string                  `json:"start"`
	TypeCode *int                    `json:"type_code,omitempty"`
	Sport    trackexport.Sport       `json:"sport"`
	Files    []string                `json:"files"`
	Stats    trackexport.EnrichStats `json:"stats"`
	Summary  trackexport.Summary     `json:"summary"`
	Note     string                  `json:"note"`
}

// Manifest is written as manifest.json next to the exported documents.
type Manifest struct {
	FormatVersion    string           `json:"format_version"`
	RunID            string           `json:"run_id"`
	GeneratedAt      time.Time        `json:"generated_at"`
	Source           string           `json:"source"`
	StorePath        string           `json:"store_path"`
	BeginTime        int64            `json:"begin_time"`
	Watermark        int64            `json:"watermark"`
	WatermarkWritten bool             `json:"watermark_written"`
	SamplesPath      string           `json:"samples_path,omitempty"`
	MetricsPath      string           `json:"metrics_path,omitempty"`
	Activities       []ActivityReport `json:"activities"`
}

// SampleRow is one enriched trackpoint in the samples artifact.
type SampleRow struct {
	ActivityID   int64    `json:"activity_id"`
	Sport        string   `json:"sport"`
	TSUTCISO     string   `json:"ts_utc_iso"`
	Latitude     string   `json:"latitude"`
	Longitude    string   `json:"longitude"`
	AltitudeM    *float64 `json:"altitude_m,omitempty"`
	HRBPM        *int     `json:"hr_bpm,omitempty"`
	CadenceSPM   *int     `json:"cadence_spm,omitempty"`
	Matched      bool     `json:"telemetry_matched"`
	Interpolated bool     `json:"cadence_interpolated"`
}
