package trackexport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		code *int
		want Sport
	}{
		{"running", intPtr(1), SportRunning},
		{"treadmill", intPtr(8), SportRunning},
		{"biking", intPtr(5), SportBiking},
		{"indoor biking", intPtr(10), SportBiking},
		{"walking variant", intPtr(6), SportOther},
		{"unknown", intPtr(99), SportOther},
		{"absent", nil, SportOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.code))
		})
	}
}

func TestCorrelationKeyTruncatesToSecond(t *testing.T) {
	require.Equal(t, int64(1_000_000+3000), CorrelationKey(1_000_000, 3999))
	require.Equal(t, int64(1_000_000), CorrelationKey(1_000_000, 999))
	require.Equal(t, int64(1_000_000-1000), CorrelationKey(1_000_000, -1500))
}

func TestCorrelatorFirstSampleWins(t *testing.T) {
	c := NewCorrelator([]TelemetrySample{
		{TimestampMs: 5000, HeartRateBpm: 120, StepCount: 2},
		{TimestampMs: 5000, HeartRateBpm: 150, StepCount: 3},
		{TimestampMs: 6000, HeartRateBpm: 130, StepCount: 1},
	})
	require.Equal(t, 2, c.Len())

	s, ok := c.Lookup(0, 5432)
	require.True(t, ok)
	require.Equal(t, 120, s.HeartRateBpm)

	_, ok = c.Lookup(0, 7000)
	require.False(t, ok)
}

func TestCadenceEstimatorWindow(t *testing.T) {
	est := NewCadenceEstimator(3)
	sample := func(steps int) *TelemetrySample { return &TelemetrySample{StepCount: steps} }

	cad, ok := est.Next(SportRunning, sample(3))
	require.True(t, ok)
	require.Equal(t, 180, cad)

	cad, ok = est.Next(SportRunning, sample(2))
	require.True(t, ok)
	require.Equal(t, 150, cad)

	est.Next(SportRunning, sample(2))
	cad, ok = est.Next(SportRunning, sample(2))
	require.True(t, ok)
	require.Equal(t, 120, cad, "oldest value evicted once the window is full")
	require.Equal(t, 3, est.Len())
}

func TestCadenceEstimatorRounds(t *testing.T) {
	est := NewCadenceEstimator(20)
	for i := 0; i < 6; i++ {
		est.Next(SportRunning, &TelemetrySample{StepCount: 1})
	}
	cad, ok := est.Next(SportRunning, &TelemetrySample{StepCount: 2})
	require.True(t, ok)
	// 8 * 60 / 7 = 68.57
	require.Equal(t, 69, cad)
}

func TestCadenceEstimatorGapsDecay(t *testing.T) {
	est := NewCadenceEstimator(20)
	est.Next(SportRunning, &TelemetrySample{StepCount: 3})
	est.Next(SportRunning, &TelemetrySample{StepCount: 2})

	cad, ok := est.Next(SportRunning, nil)
	require.True(t, ok)
	require.Equal(t, 150, cad)
	require.Equal(t, 1, est.Len())

	cad, ok = est.Next(SportRunning, nil)
	require.True(t, ok)
	require.Equal(t, 120, cad)
	require.Equal(t, 0, est.Len())

	_, ok = est.Next(SportRunning, nil)
	require.False(t, ok)
}

func TestCadenceEstimatorIgnoresOtherSports(t *testing.T) {
	est := NewCadenceEstimator(20)
	_, ok := est.Next(SportBiking, &TelemetrySample{StepCount: 3})
	require.False(t, ok)
	require.Equal(t, 0, est.Len())
}

func TestEnrichFilters(t *testing.T) {
	const activityID = 1_500_000_000_000
	c := NewCorrelator([]TelemetrySample{
		{TimestampMs: activityID + 1000, HeartRateBpm: 0, StepCount: 2},
		{TimestampMs: activityID + 2000, HeartRateBpm: 141, StepCount: 3},
	})
	e := NewEnricher(c)
	act := Activity{ID: activityID, StartTime: activityID, EndTime: activityID + 60_000, TypeCode: intPtr(1)}
	est := NewCadenceEstimator(DefaultCadenceWindow)

	low := e.Enrich(act, SportRunning, Trackpoint{ActivityID: activityID, Latitude: "52.1", Longitude: "13.4", AltitudeMeters: -20, TimestampMs: 1250}, est)
	require.Nil(t, low.AltitudeM)
	require.True(t, low.Matched)
	require.Nil(t, low.HeartRateBpm, "zero bpm is dropped")
	require.NotNil(t, low.CadenceSPM, "the sample still feeds cadence")
	require.Equal(t, 120, *low.CadenceSPM)
	require.Equal(t, time.Unix(activityID/1000+1, 0).UTC(), low.Time)

	ok := e.Enrich(act, SportRunning, Trackpoint{ActivityID: activityID, AltitudeMeters: -19.5, TimestampMs: 2999}, est)
	require.NotNil(t, ok.AltitudeM)
	require.Equal(t, -19.5, *ok.AltitudeM)
	require.NotNil(t, ok.HeartRateBpm)
	require.Equal(t, 141, *ok.HeartRateBpm)
	require.Equal(t, 150, *ok.CadenceSPM)
}

func TestEnrichNoCadenceForBiking(t *testing.T) {
	const activityID = 1_000_000
	c := NewCorrelator([]TelemetrySample{{TimestampMs: activityID, HeartRateBpm: 100, StepCount: 3}})
	act := Activity{ID: activityID, StartTime: activityID, TypeCode: intPtr(5)}
	track, stats := NewEnricher(c).EnrichActivity(act, []Trackpoint{{ActivityID: activityID, TimestampMs: 10}}, NewCadenceEstimator(0))

	require.Equal(t, SportBiking, track.Sport)
	require.Len(t, track.Points, 1)
	require.Nil(t, track.Points[0].CadenceSPM)
	require.Equal(t, 100, *track.Points[0].HeartRateBpm)
	require.Equal(t, 1, stats.Matched)
}

func TestEnrichActivityInterpolatesAcrossGaps(t *testing.T) {
	const activityID = 2_000_000
	// telemetry on trackpoints 1, 3 and 5 only
	c := NewCorrelator([]TelemetrySample{
		{TimestampMs: activityID + 1000, HeartRateBpm: 120, StepCount: 3},
		{TimestampMs: activityID + 3000, HeartRateBpm: 121, StepCount: 3},
		{TimestampMs: activityID + 5000, HeartRateBpm: 122, StepCount: 3},
	})
	points := make([]Trackpoint, 0, 7)
	for i := 1; i <= 7; i++ {
		points = append(points, Trackpoint{ActivityID: activityID, TimestampMs: int64(i * 1000), AltitudeMeters: 10})
	}
	act := Activity{ID: activityID, StartTime: activityID, TypeCode: intPtr(1)}
	est := NewCadenceEstimator(DefaultCadenceWindow)
	est.Next(SportRunning, &TelemetrySample{StepCount: 9}) // stale state from a previous activity

	track, stats := NewEnricher(c).EnrichActivity(act, points, est)

	for i := 0; i < 6; i++ {
		require.NotNil(t, track.Points[i].CadenceSPM, "trackpoint %d", i+1)
		require.Equal(t, 180, *track.Points[i].CadenceSPM, "trackpoint %d", i+1)
	}
	require.Nil(t, track.Points[6].CadenceSPM)
	require.True(t, track.Points[1].Interpolated)
	require.True(t, track.Points[3].Interpolated)
	require.False(t, track.Points[2].Interpolated)

	require.Equal(t, EnrichStats{Trackpoints: 7, Matched: 3, Missed: 4, Interpolated: 3}, stats)
	require.InDelta(t, 3.0/7.0, stats.HitRate(), 1e-9)
}
