package emit

import (
	"strconv"

	"github.com/lucasjlepore/trackexport"
	"github.com/lucasjlepore/trackexport/xmldoc"
)

const (
	GPXNamespace                = "http://www.topografix.com/GPX/1/1"
	GPXLocation                 = "https://www.topografix.com/GPX/1/1/gpx.xsd"
	TrackPointExtensionNS       = "http://www.garmin.com/xmlschemas/TrackPointExtension/v1"
	TrackPointExtensionLocation = "https://www8.garmin.com/xmlschemas/TrackPointExtensionv1.xsd"
	GPXDataNamespace            = "http://www.cluetrust.com/XML/GPXDATA/1/0"
	GPXDataLocation             = "https://www.cluetrust.com/Schemas/gpxdata10.xsd"
	gpxVersion                  = "1.1"
)

// GeoTrackSchema is the GPX namespace table with both extension vocabularies.
var GeoTrackSchema = xmldoc.Schema{
	{URI: GPXNamespace, Location: GPXLocation},
	{Prefix: "xsi", URI: xmldoc.XSINamespace},
	{Prefix: "gpxtpx", URI: TrackPointExtensionNS, Location: TrackPointExtensionLocation},
	{Prefix: "gpxdata", URI: GPXDataNamespace, Location: GPXDataLocation},
}

var geoTrackPoint = []pointRule{
	{write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.SetAttr("lat", p.Latitude)
		n.SetAttr("lon", p.Longitude)
	}},
	{include: hasAltitude, write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.AddText("ele", formatAltitude(*p.AltitudeM))
	}},
	{write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.AddText("time", trackexport.ISOTime(p.Time))
	}},
	{include: func(p trackexport.EnrichedTrackpoint) bool { return hasHeartRate(p) || hasCadence(p) }, write: writeGeoExtensions},
}

// writeGeoExtensions writes each value twice: once in the Garmin TrackPointExtension
// and once as a cluetrust gpxdata sibling.
func writeGeoExtensions(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
	ext := n.Add("extensions")
	tpx := ext.AddNS("gpxtpx", "TrackPointExtension")
	if hasHeartRate(p) {
		hr := strconv.Itoa(*p.HeartRateBpm)
		tpx.AddTextNS("gpxtpx", "hr", hr)
		ext.AddTextNS("gpxdata", "hr", hr)
	}
	if hasCadence(p) {
		cad := strconv.Itoa(*p.CadenceSPM)
		tpx.AddTextNS("gpxtpx", "cad", cad)
		ext.AddTextNS("gpxdata", "cadence", cad)
	}
}

// GeoTrack emits GPX 1.1 documents with a single track segment.
type GeoTrack struct{}

// Format implements Emitter.
func (GeoTrack) Format() Format {
	return Format{Name: "gpx", Dir: "GPX", Ext: ".gpx"}
}

// Build implements Emitter.
func (GeoTrack) Build(track trackexport.ActivityTrack) *xmldoc.Document {
	doc := xmldoc.New(GeoTrackSchema, "gpx")
	doc.Root.SetAttr("version", gpxVersion)
	doc.Root.SetAttr("creator", ApplicationName)

	trk := doc.Root.Add("trk")
	trk.AddText("name", TrackName(track))
	appendPoints(trk.Add("trkseg"), "trkpt", track.Points, geoTrackPoint)
	return doc
}

// TrackName combines the sport and the activity start, e.g. "Running at 2018-03-01T07:00:00".
func TrackName(track trackexport.ActivityTrack) string {
	start := trackexport.UTCFromMillis(track.Activity.ID)
	return string(track.Sport) + " at " + start.Format("2006-01-02T15:04:05")
}
