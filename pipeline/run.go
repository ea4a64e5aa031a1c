package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lucasjlepore/trackexport"
	"github.com/lucasjlepore/trackexport/emit"
	"github.com/lucasjlepore/trackexport/store"
)

// ManifestFormatVersion is written into manifest.json.
const ManifestFormatVersion = "1"

// Run reads the store, exports every activity newer than the watermark and writes the
// run artifacts:
//   - TCX/<id>.tcx and GPX/<id>.gpx per activity
//   - samples.parquet or samples.csv (optional)
//   - metrics textfile (optional)
//   - manifest.json
//   - the watermark file, when anything was exported
//
// An unreadable store is logged and reported as trackexport.NothingExported.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.StorePath) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	source := strings.ToLower(strings.TrimSpace(opts.Source))
	if source == "" {
		source = SourceSQLite
	}
	if source != SourceSQLite && source != SourceFIT {
		return nil, fmt.Errorf("unsupported source %q (expected sqlite|fit)", opts.Source)
	}
	format := strings.ToLower(strings.TrimSpace(opts.SamplesFormat))
	if format == "" {
		format = SamplesParquet
	}
	if format != SamplesParquet && format != SamplesCSV && format != SamplesNone {
		return nil, fmt.Errorf("unsupported samples format %q (expected parquet|csv|none)", opts.SamplesFormat)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	runID := uuid.NewString()
	log = log.WithField("run_id", runID)

	wmPath := opts.WatermarkPath
	if wmPath == "" {
		wmPath = filepath.Join(opts.OutDir, store.WatermarkFileName)
	}
	wmFile := store.WatermarkFile{Path: wmPath}

	result := &Result{
		RunID:         runID,
		OutputDir:     opts.OutDir,
		WatermarkPath: wmPath,
		Watermark:     trackexport.NothingExported,
	}

	begin, err := resolveBeginTime(opts, wmFile)
	if err != nil {
		return nil, err
	}
	result.BeginTime = begin
	log.WithFields(logrus.Fields{"source": source, "store": opts.StorePath, "begin_time": begin}).Info("reading activity store")

	snap, err := readSnapshot(ctx, source, opts.StorePath, begin)
	if errors.Is(err, store.ErrUnreadableStore) {
		log.WithError(err).Error("activity store unreadable; nothing exported")
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	metrics := NewMetrics()
	var rows []SampleRow
	exp := &Exporter{
		Emitters:      emit.Default(),
		Sink:          DirSink{Root: opts.OutDir},
		CadenceWindow: opts.CadenceWindow,
		Log:           log,
		Metrics:       metrics,
	}
	if format != SamplesNone {
		exp.Observe = func(track trackexport.ActivityTrack, _ trackexport.EnrichStats) {
			rows = append(rows, SampleRows(track)...)
		}
	}

	wm, reports, err := exp.Export(snap.Activities, snap.TrackpointsByActivity(), snap.Telemetry)
	if err != nil {
		return nil, err
	}
	result.Watermark = wm
	result.Activities = reports

	if format != SamplesNone && len(rows) > 0 {
		result.SamplesPath = filepath.Join(opts.OutDir, samplesFileName(format))
		if err := writeSamples(result.SamplesPath, format, rows); err != nil {
			return nil, fmt.Errorf("write %s: %w", filepath.Base(result.SamplesPath), err)
		}
	}
	if opts.MetricsPath != "" {
		if err := metrics.WriteTextfile(opts.MetricsPath); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
		result.MetricsPath = opts.MetricsPath
	}

	written, err := wmFile.Save(wm)
	if err != nil {
		return nil, err
	}
	result.WatermarkWritten = written

	manifest := Manifest{
		FormatVersion:    ManifestFormatVersion,
		RunID:            runID,
		GeneratedAt:      time.Now().UTC(),
		Source:           source,
		StorePath:        opts.StorePath,
		BeginTime:        begin,
		Watermark:        int64(wm),
		WatermarkWritten: written,
		SamplesPath:      relativeTo(opts.OutDir, result.SamplesPath),
		MetricsPath:      result.MetricsPath,
		Activities:       reports,
	}
	result.ManifestPath = filepath.Join(opts.OutDir, "manifest.json")
	if err := writeJSON(result.ManifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	log.WithFields(logrus.Fields{"activities": len(reports), "watermark": int64(wm)}).Info("export finished")
	return result, nil
}

// ExportSnapshot exports an already-read snapshot into memory.
func ExportSnapshot(snap *store.Snapshot, window int, log logrus.FieldLogger) (*MemorySink, trackexport.Watermark, []ActivityReport, error) {
	sink := &MemorySink{}
	exp := &Exporter{
		Emitters:      emit.Default(),
		Sink:          sink,
		CadenceWindow: window,
		Log:           log,
	}
	wm, reports, err := exp.Export(snap.Activities, snap.TrackpointsByActivity(), snap.Telemetry)
	if err != nil {
		return nil, trackexport.NothingExported, nil, err
	}
	return sink, wm, reports, nil
}

func resolveBeginTime(opts Options, wm store.WatermarkFile) (int64, error) {
	switch {
	case opts.BeginTime != nil:
		return *opts.BeginTime, nil
	case opts.Resync:
		return 0, nil
	}
	last, err := wm.Load()
	if err != nil {
		return 0, err
	}
	return store.BeginTime(last), nil
}

func readSnapshot(ctx context.Context, source, path string, begin int64) (*store.Snapshot, error) {
	if source == SourceFIT {
		return store.ReadFITDir(path, begin)
	}
	s, err := store.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Snapshot(ctx, begin)
}

func relativeTo(base, path string) string {
	if path == "" {
		return ""
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
