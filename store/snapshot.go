// Package store reads activity data into typed rows and persists the export watermark.
package store

import (
	"errors"
	"sort"

	"github.com/lucasjlepore/trackexport"
)

// ErrUnreadableStore reports a store that cannot be opened or queried.
var ErrUnreadableStore = errors.New("activity store not readable")

// Snapshot holds the rows read for one export run.
type Snapshot struct {
	Activities  []trackexport.Activity
	Trackpoints []trackexport.Trackpoint
	Telemetry   []trackexport.TelemetrySample
}

// TrackpointsByActivity groups trackpoints by activity id, keeping store order within each group.
func (s *Snapshot) TrackpointsByActivity() map[int64][]trackexport.Trackpoint {
	out := make(map[int64][]trackexport.Trackpoint, len(s.Activities))
	for _, tp := range s.Trackpoints {
		out[tp.ActivityID] = append(out[tp.ActivityID], tp)
	}
	return out
}

// merge appends other's rows and keeps activities in ascending id order.
func (s *Snapshot) merge(other *Snapshot) {
	s.Activities = append(s.Activities, other.Activities...)
	s.Trackpoints = append(s.Trackpoints, other.Trackpoints...)
	s.Telemetry = append(s.Telemetry, other.Telemetry...)
	sort.SliceStable(s.Activities, func(i, j int) bool {
		return s.Activities[i].ID < s.Activities[j].ID
	})
}
