// Package emit renders enriched activities as training-log (TCX) and geo-track (GPX)
// documents. Both formats share one tree walk and differ only in their schema and
// per-trackpoint policy tables.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasjlepore/trackexport"
	"github.com/lucasjlepore/trackexport/xmldoc"
)

// ApplicationName is written as the authoring application in both formats.
const ApplicationName = "Amazfit Exporter"

// Format describes where a document kind is written.
type Format struct {
	Name string // tcx|gpx
	Dir  string
	Ext  string
}

// FileName returns "<Dir>/<activity id><Ext>".
func (f Format) FileName(activityID int64) string {
	return f.Dir + "/" + strconv.FormatInt(activityID, 10) + f.Ext
}

// Emitter builds one document per activity.
type Emitter interface {
	Format() Format
	Build(track trackexport.ActivityTrack) *xmldoc.Document
}

// Default returns the training-log and geo-track emitters, in that order.
func Default() []Emitter {
	return []Emitter{TrainingLog{}, GeoTrack{}}
}

// Render builds and serializes one document.
func Render(e Emitter, track trackexport.ActivityTrack) ([]byte, error) {
	out, err := e.Build(track).Marshal()
	if err != nil {
		return nil, fmt.Errorf("render %s for activity %d: %w", e.Format().Name, track.Activity.ID, err)
	}
	return out, nil
}

// pointRule writes one part of a trackpoint node when include accepts the point.
type pointRule struct {
	include func(p trackexport.EnrichedTrackpoint) bool
	write   func(node *xmldoc.Element, p trackexport.EnrichedTrackpoint)
}

// appendPoints adds one tag node per point, in input order.
func appendPoints(parent *xmldoc.Element, tag string, points []trackexport.EnrichedTrackpoint, rules []pointRule) {
	for _, p := range points {
		node := parent.Add(tag)
		for _, r := range rules {
			if r.include == nil || r.include(p) {
				r.write(node, p)
			}
		}
	}
}

func hasAltitude(p trackexport.EnrichedTrackpoint) bool  { return p.AltitudeM != nil }
func hasHeartRate(p trackexport.EnrichedTrackpoint) bool { return p.HeartRateBpm != nil }
func hasCadence(p trackexport.EnrichedTrackpoint) bool   { return p.CadenceSPM != nil }

// formatAltitude prints the shortest representation and keeps a ".0" on integral values.
func formatAltitude(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func addVersion(parent *xmldoc.Element) {
	version := parent.Add("Version")
	version.AddText("VersionMajor", "0")
	version.AddText("VersionMinor", "0")
}
