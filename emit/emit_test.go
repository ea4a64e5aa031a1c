package emit

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/trackexport"
)

const startMs = 1519887600000 // 2018-03-01T07:00:00Z

func ptr[T any](v T) *T { return &v }

func singlePointTrack() trackexport.ActivityTrack {
	return trackexport.ActivityTrack{
		Activity: trackexport.Activity{
			ID:              startMs,
			StartTime:       startMs,
			EndTime:         startMs + 1_805_500,
			CalorieMilliCal: 312_456,
			TypeCode:        ptr(1),
		},
		Sport: trackexport.SportRunning,
		Points: []trackexport.EnrichedTrackpoint{{
			Latitude:     "48.1372",
			Longitude:    "11.5755",
			AltitudeM:    ptr(520.0),
			Time:         time.Unix(startMs/1000+1, 0).UTC(),
			HeartRateBpm: ptr(140),
			CadenceSPM:   ptr(168),
		}},
	}
}

func threePointTrack() trackexport.ActivityTrack {
	track := singlePointTrack()
	base := time.Unix(startMs/1000, 0).UTC()
	track.Points = append(track.Points,
		trackexport.EnrichedTrackpoint{Latitude: "48.1373", Longitude: "11.5756", Time: base.Add(2 * time.Second), CadenceSPM: ptr(165)},
		trackexport.EnrichedTrackpoint{Latitude: "48.1374", Longitude: "11.5757", AltitudeM: ptr(521.5), Time: base.Add(3 * time.Second)},
	)
	return track
}

func TestTrainingLogDocument(t *testing.T) {
	out, err := Render(TrainingLog{}, singlePointTrack())
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2" xmlns:ae="http://www.garmin.com/xmlschemas/ActivityExtension/v2" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2 https://www8.garmin.com/xmlschemas/TrainingCenterDatabasev2.xsd http://www.garmin.com/xmlschemas/ActivityExtension/v2 https://www8.garmin.com/xmlschemas/ActivityExtensionv2.xsd">
  <Activities>
    <Activity Sport="Running">
      <Id>2018-03-01T07:00:00Z</Id>
      <Lap StartTime="2018-03-01T07:00:00Z">
        <TotalTimeSeconds>1805</TotalTimeSeconds>
        <DistanceMeters>0</DistanceMeters>
        <Calories>312</Calories>
        <Intensity>Active</Intensity>
        <TriggerMethod>Manual</TriggerMethod>
        <Track>
          <Trackpoint>
            <Time>2018-03-01T07:00:01Z</Time>
            <Position>
              <LatitudeDegrees>48.1372</LatitudeDegrees>
              <LongitudeDegrees>11.5755</LongitudeDegrees>
            </Position>
            <AltitudeMeters>520.0</AltitudeMeters>
            <HeartRateBpm>
              <Value>140</Value>
            </HeartRateBpm>
            <Extensions>
              <ae:TPX>
                <ae:RunCadence>168</ae:RunCadence>
              </ae:TPX>
            </Extensions>
          </Trackpoint>
        </Track>
      </Lap>
      <Creator xsi:type="Device_t">
        <Name>Huami Amazfit Pace</Name>
        <UnitId>0</UnitId>
        <ProductID>0</ProductID>
        <Version>
          <VersionMajor>0</VersionMajor>
          <VersionMinor>0</VersionMinor>
        </Version>
      </Creator>
    </Activity>
  </Activities>
  <Author xsi:type="Application_t">
    <Name>Amazfit Exporter</Name>
    <Build>
      <Version>
        <VersionMajor>0</VersionMajor>
        <VersionMinor>0</VersionMinor>
      </Version>
    </Build>
    <LangID>en</LangID>
    <PartNumber>000-00000-00</PartNumber>
  </Author>
</TrainingCenterDatabase>
`
	require.Equal(t, want, string(out))
}

func TestGeoTrackDocument(t *testing.T) {
	out, err := Render(GeoTrack{}, singlePointTrack())
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<gpx xmlns="http://www.topografix.com/GPX/1/1" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1" xmlns:gpxdata="http://www.cluetrust.com/XML/GPXDATA/1/0" version="1.1" creator="Amazfit Exporter" xsi:schemaLocation="http://www.topografix.com/GPX/1/1 https://www.topografix.com/GPX/1/1/gpx.xsd http://www.garmin.com/xmlschemas/TrackPointExtension/v1 https://www8.garmin.com/xmlschemas/TrackPointExtensionv1.xsd http://www.cluetrust.com/XML/GPXDATA/1/0 https://www.cluetrust.com/Schemas/gpxdata10.xsd">
  <trk>
    <name>Running at 2018-03-01T07:00:00</name>
    <trkseg>
      <trkpt lat="48.1372" lon="11.5755">
        <ele>520.0</ele>
        <time>2018-03-01T07:00:01Z</time>
        <extensions>
          <gpxtpx:TrackPointExtension>
            <gpxtpx:hr>140</gpxtpx:hr>
            <gpxtpx:cad>168</gpxtpx:cad>
          </gpxtpx:TrackPointExtension>
          <gpxdata:hr>140</gpxdata:hr>
          <gpxdata:cadence>168</gpxdata:cadence>
        </extensions>
      </trkpt>
    </trkseg>
  </trk>
</gpx>
`
	require.Equal(t, want, string(out))
}

func TestGeoTrackOmitsEmptyExtensions(t *testing.T) {
	track := threePointTrack()
	out, err := Render(GeoTrack{}, track)
	require.NoError(t, err)
	doc := string(out)

	require.Equal(t, 2, strings.Count(doc, "<extensions>"))
	require.Equal(t, 2, strings.Count(doc, "<ele>"))
	require.Equal(t, 1, strings.Count(doc, "<gpxdata:hr>"))
	require.Equal(t, 2, strings.Count(doc, "<gpxdata:cadence>"))
	require.Contains(t, doc, "<ele>521.5</ele>")
}

// pointTimes decodes the per-point time values without caring about namespaces.
func pointTimes(t *testing.T, doc []byte, pointTag, timeTag string) []string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(doc)))
	var (
		times   []string
		inPoint bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case pointTag:
				inPoint = true
			case timeTag:
				if inPoint {
					var v string
					require.NoError(t, dec.DecodeElement(&v, &el))
					times = append(times, v)
				}
			}
		case xml.EndElement:
			if el.Name.Local == pointTag {
				inPoint = false
			}
		}
	}
	return times
}

func TestEmittersAgreeOnPointsAndInstants(t *testing.T) {
	track := threePointTrack()
	tcx, err := Render(TrainingLog{}, track)
	require.NoError(t, err)
	gpx, err := Render(GeoTrack{}, track)
	require.NoError(t, err)

	want := []string{"2018-03-01T07:00:01Z", "2018-03-01T07:00:02Z", "2018-03-01T07:00:03Z"}
	require.Equal(t, want, pointTimes(t, tcx, "Trackpoint", "Time"))
	require.Equal(t, want, pointTimes(t, gpx, "trkpt", "time"))

	require.Equal(t, 2, strings.Count(string(tcx), "<ae:RunCadence>"))
	require.Equal(t, 1, strings.Count(string(tcx), "<HeartRateBpm>"))
	require.Equal(t, 2, strings.Count(string(tcx), "<AltitudeMeters>"))
}

func TestTrainingLogSportAndNoCadenceForBiking(t *testing.T) {
	track := singlePointTrack()
	track.Sport = trackexport.SportBiking
	track.Points[0].CadenceSPM = nil

	out, err := Render(TrainingLog{}, track)
	require.NoError(t, err)
	require.Contains(t, string(out), `<Activity Sport="Biking">`)
	require.NotContains(t, string(out), "<Extensions>")
}

func TestFormatAltitude(t *testing.T) {
	require.Equal(t, "520.0", formatAltitude(520))
	require.Equal(t, "-19.5", formatAltitude(-19.5))
	require.Equal(t, "0.0", formatAltitude(0))
	require.Equal(t, "12.25", formatAltitude(12.25))
}

func TestFormatFileName(t *testing.T) {
	require.Equal(t, "TCX/1519887600000.tcx", TrainingLog{}.Format().FileName(startMs))
	require.Equal(t, "GPX/1519887600000.gpx", GeoTrack{}.Format().FileName(startMs))
}
