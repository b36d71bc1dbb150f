// Package ear computes the eye aspect ratio (EAR), a scalar measure of
// how open an eye is, from six eye-contour landmark points.
//
// Open eyes typically measure in the 0.25-0.4 range; the ratio drops
// below ~0.2 as the eyelid closes.
package ear

import (
	"errors"
	"math"
)

// ErrDegenerateContour is returned when the horizontal eye distance is
// zero and the ratio is undefined. Callers should skip the eye rather
// than treat the value as a reading.
var ErrDegenerateContour = errors.New("ear: degenerate eye contour (zero horizontal distance)")

// Point is a 2D landmark coordinate in pixel units.
type Point struct {
	X, Y float64
}

// Contour holds the six landmark points of one eye, ordered by the
// standard convention:
//
//	0 = left corner, 3 = right corner
//	1/5 = first vertical pair, 2/4 = second vertical pair
//
// The ordering is the contract of the EAR formula, not arbitrary.
type Contour [6]Point

// NumPoints is the number of landmark points per eye contour.
const NumPoints = 6

// distance returns the Euclidean distance between two points.
func distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Compute returns the eye aspect ratio for one eye contour:
//
//	EAR = (|p1-p5| + |p2-p4|) / (2 * |p0-p3|)
//
// It returns ErrDegenerateContour when the horizontal distance |p0-p3|
// is zero, which can only come from broken landmark output.
func Compute(c Contour) (float64, error) {
	v1 := distance(c[1], c[5])
	v2 := distance(c[2], c[4])
	h := distance(c[0], c[3])

	if h == 0 {
		return 0, ErrDegenerateContour
	}

	return (v1 + v2) / (2 * h), nil
}

// Average combines the left and right eye ratios into the single
// per-frame sample fed to the drowsiness state machine.
func Average(left, right float64) float64 {
	return (left + right) / 2
}
