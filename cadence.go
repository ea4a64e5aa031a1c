package trackexport

import "math"

// DefaultCadenceWindow holds roughly the last 20-60 seconds of steps at the watch's
// 1-3 second sampling interval.
const DefaultCadenceWindow = 20

// CadenceEstimator keeps a bounded window of recent step counts for one activity.
// It is owned by the caller and must be Reset at every activity boundary.
type CadenceEstimator struct {
	size  int
	steps []int
}

// NewCadenceEstimator returns an estimator with the given window size; size <= 0 uses
// DefaultCadenceWindow.
func NewCadenceEstimator(size int) *CadenceEstimator {
	if size <= 0 {
		size = DefaultCadenceWindow
	}
	return &CadenceEstimator{size: size, steps: make([]int, 0, size)}
}

// Reset clears the window.
func (e *CadenceEstimator) Reset() {
	e.steps = e.steps[:0]
}

// Len returns the number of step counts in the window.
func (e *CadenceEstimator) Len() int {
	return len(e.steps)
}

// Next returns the cadence in steps per minute for one trackpoint.
//
// With a sample, its step count enters the window (evicting the oldest when full) and
// the estimate covers the updated window. Without one, the estimate covers the current
// window and then the oldest entry is dropped, so consecutive gaps decay to nothing.
// Calls for any sport other than SportRunning return false and leave the window untouched.
func (e *CadenceEstimator) Next(sport Sport, sample *TelemetrySample) (cadence int, ok bool) {
	if sport != SportRunning {
		return 0, false
	}
	if sample != nil {
		if len(e.steps) == e.size {
			e.evictOldest()
		}
		e.steps = append(e.steps, sample.StepCount)
		return e.estimate(), true
	}
	if len(e.steps) == 0 {
		return 0, false
	}
	cadence = e.estimate()
	e.evictOldest()
	return cadence, true
}

func (e *CadenceEstimator) estimate() int {
	sum := 0
	for _, s := range e.steps {
		sum += s
	}
	return int(math.Round(float64(sum) * 60 / float64(len(e.steps))))
}

func (e *CadenceEstimator) evictOldest() {
	copy(e.steps, e.steps[1:])
	e.steps = e.steps[:len(e.steps)-1]
}
