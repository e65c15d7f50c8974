package grading

import "math"

// ClampElapsed validates a client-reported elapsed time against the test's
// declared duration. Negative or non-finite input becomes 0; a timed test
// (duration > 0) caps the value at duration*60 seconds; an untimed test
// never clamps. The result is stored on the attempt record as advisory
// information and does not gate pass/fail.
func ClampElapsed(durationMin int, elapsedSec float64) int {
	if math.IsNaN(elapsedSec) || math.IsInf(elapsedSec, 0) || elapsedSec < 0 {
		return 0
	}
	sec := int(elapsedSec)
	if max := durationMin * 60; durationMin > 0 && sec > max {
		return max
	}
	return sec
}
