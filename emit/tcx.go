package emit

import (
	"strconv"

	"github.com/lucasjlepore/trackexport"
	"github.com/lucasjlepore/trackexport/xmldoc"
)

const (
	TrainingCenterNamespace    = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	TrainingCenterLocation     = "https://www8.garmin.com/xmlschemas/TrainingCenterDatabasev2.xsd"
	ActivityExtensionNamespace = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
	ActivityExtensionLocation  = "https://www8.garmin.com/xmlschemas/ActivityExtensionv2.xsd"
	deviceName                 = "Huami Amazfit Pace"
	lapIntensity               = "Active"
	lapTriggerMethod           = "Manual"
	applicationPartNumber      = "000-00000-00"
	applicationLanguage        = "en"
)

// TrainingLogSchema is the TCX namespace table.
var TrainingLogSchema = xmldoc.Schema{
	{URI: TrainingCenterNamespace, Location: TrainingCenterLocation},
	{Prefix: "ae", URI: ActivityExtensionNamespace, Location: ActivityExtensionLocation},
	{Prefix: "xsi", URI: xmldoc.XSINamespace},
}

var trainingLogPoint = []pointRule{
	{write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.AddText("Time", trackexport.ISOTime(p.Time))
	}},
	{write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		pos := n.Add("Position")
		pos.AddText("LatitudeDegrees", p.Latitude)
		pos.AddText("LongitudeDegrees", p.Longitude)
	}},
	{include: hasAltitude, write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.AddText("AltitudeMeters", formatAltitude(*p.AltitudeM))
	}},
	{include: hasHeartRate, write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.Add("HeartRateBpm").AddText("Value", strconv.Itoa(*p.HeartRateBpm))
	}},
	{include: hasCadence, write: func(n *xmldoc.Element, p trackexport.EnrichedTrackpoint) {
		n.Add("Extensions").AddNS("ae", "TPX").AddTextNS("ae", "RunCadence", strconv.Itoa(*p.CadenceSPM))
	}},
}

// TrainingLog emits Garmin Training Center (TCX) documents with a single lap.
type TrainingLog struct{}

// Format implements Emitter.
func (TrainingLog) Format() Format {
	return Format{Name: "tcx", Dir: "TCX", Ext: ".tcx"}
}

// Build implements Emitter.
func (TrainingLog) Build(track trackexport.ActivityTrack) *xmldoc.Document {
	act := track.Activity
	doc := xmldoc.New(TrainingLogSchema, "TrainingCenterDatabase")

	activity := doc.Root.Add("Activities").Add("Activity")
	activity.SetAttr("Sport", string(track.Sport))
	activity.AddText("Id", trackexport.ISOTime(trackexport.UTCFromMillis(act.ID)))

	lap := activity.Add("Lap")
	lap.SetAttr("StartTime", trackexport.ISOTime(trackexport.UTCFromMillis(act.StartTime)))
	lap.AddText("TotalTimeSeconds", strconv.FormatInt(act.ElapsedSeconds(), 10))
	// route distance is not computed
	lap.AddText("DistanceMeters", "0")
	lap.AddText("Calories", strconv.FormatInt(act.Calories(), 10))
	lap.AddText("Intensity", lapIntensity)
	lap.AddText("TriggerMethod", lapTriggerMethod)
	appendPoints(lap.Add("Track"), "Trackpoint", track.Points, trainingLogPoint)

	addCreator(activity)
	addAuthor(doc.Root)
	return doc
}

func addCreator(parent *xmldoc.Element) {
	creator := parent.Add("Creator")
	creator.SetAttrNS("xsi", "type", "Device_t")
	creator.AddText("Name", deviceName)
	creator.AddText("UnitId", "0")
	creator.AddText("ProductID", "0")
	addVersion(creator)
}

func addAuthor(parent *xmldoc.Element) {
	author := parent.Add("Author")
	author.SetAttrNS("xsi", "type", "Application_t")
	author.AddText("Name", ApplicationName)
	addVersion(author.Add("Build"))
	author.AddText("LangID", applicationLanguage)
	author.AddText("PartNumber", applicationPartNumber)
}
