package pipeline

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lucasjlepore/trackexport"
	"github.com/lucasjlepore/trackexport/emit"
)

// ErrActivitiesOutOfOrder is returned when activities are not strictly ascending by id.
var ErrActivitiesOutOfOrder = errors.New("activities not in ascending id order")

// LowHitRate is the telemetry hit rate below which an activity is logged as suspicious.
const LowHitRate = 0.1

// Exporter drives enrichment and every emitter for a batch of activities.
type Exporter struct {
	Emitters      []emit.Emitter
	Sink          Sink
	CadenceWindow int
	Log           logrus.FieldLogger
	Metrics       *Metrics

	// Observe, when set, receives each activity after its documents were written.
	Observe func(track trackexport.ActivityTrack, stats trackexport.EnrichStats)
}

// Export processes activities in the given order and returns the highest exported id,
// or trackexport.NothingExported for an empty batch. Inputs are never modified.
func (x *Exporter) Export(
	activities []trackexport.Activity,
	trackpoints map[int64][]trackexport.Trackpoint,
	telemetry []trackexport.TelemetrySample,
) (trackexport.Watermark, []ActivityReport, error) {
	if err := checkAscending(activities); err != nil {
		return trackexport.NothingExported, nil, err
	}
	log := x.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	emitters := x.Emitters
	if emitters == nil {
		emitters = emit.Default()
	}

	enricher := trackexport.NewEnricher(trackexport.NewCorrelator(telemetry))
	est := trackexport.NewCadenceEstimator(x.CadenceWindow)

	wm := trackexport.NothingExported
	reports := make([]ActivityReport, 0, len(activities))
	for _, a := range activities {
		track, stats := enricher.EnrichActivity(a, trackpoints[a.ID], est)
		entry := log.WithFields(logrus.Fields{
			"activity_id": a.ID,
			"sport":       track.Sport,
		})

		report := ActivityReport{
			ID:       a.ID,
			Start:    trackexport.ISOTime(trackexport.UTCFromMillis(a.ID)),
			TypeCode: a.TypeCode,
			Sport:    track.Sport,
			Stats:    stats,
			Summary:  trackexport.Summarize(track),
		}
		report.Note = report.Summary.Note(track.Sport)
		for _, e := range emitters {
			data, err := emit.Render(e, track)
			if err != nil {
				return wm, reports, err
			}
			name := e.Format().FileName(a.ID)
			if err := x.Sink.WriteDocument(name, data); err != nil {
				return wm, reports, fmt.Errorf("write %s: %w", name, err)
			}
			report.Files = append(report.Files, name)
			x.Metrics.observeDocument(e.Format().Name)
		}

		if stats.Interpolated > 0 {
			entry.WithField("interpolated", stats.Interpolated).Debug("cadence carried across telemetry gaps")
		}
		if stats.Trackpoints > 0 && stats.HitRate() < LowHitRate {
			entry.WithFields(logrus.Fields{
				"trackpoints": stats.Trackpoints,
				"matched":     stats.Matched,
			}).Warn("low telemetry hit rate; trackpoint timestamps may not be activity offsets")
		}
		entry.WithFields(logrus.Fields{
			"trackpoints": stats.Trackpoints,
			"start":       report.Start,
		}).Info("activity exported")

		x.Metrics.observeActivity(track.Sport, stats)
		if x.Observe != nil {
			x.Observe(track, stats)
		}
		reports = append(reports, report)
		if w := trackexport.Watermark(a.ID); !wm.Exported() || w > wm {
			wm = w
		}
	}
	x.Metrics.setWatermark(wm)
	return wm, reports, nil
}

func checkAscending(activities []trackexport.Activity) error {
	for i := 1; i < len(activities); i++ {
		if activities[i].ID <= activities[i-1].ID {
			return fmt.Errorf("%w: activity %d follows %d", ErrActivitiesOutOfOrder, activities[i].ID, activities[i-1].ID)
		}
	}
	return nil
}
