// Package landmarks provides facial landmark detection for eye
// monitoring. A Provider finds faces in a frame and reports the 68
// ordered landmark points of the standard facial landmark convention,
// from which the two six-point eye contours are sliced.
package landmarks

import "github.com/vigil-labs/go-vigil/pkg/ear"

// Facial landmark index ranges for the eyes in the 68-point convention.
const (
	RightEyeStart = 36
	RightEyeEnd   = 42
	LeftEyeStart  = 42
	LeftEyeEnd    = 48

	// NumPoints is the number of landmark points per face.
	NumPoints = 68
)

// Face is one detected face: its 68 ordered landmark points plus the
// bounding box the detector reported.
type Face struct {
	Points [NumPoints]ear.Point

	// Bounding box, normalized to 0-1 of the frame.
	X, Y, W, H float64

	// Confidence is the detection confidence (0-1).
	Confidence float64
}

// Area returns the area of the bounding box.
func (f Face) Area() float64 {
	return f.W * f.H
}

// LeftEye returns the six-point contour of the left eye.
func (f Face) LeftEye() ear.Contour {
	return f.eye(LeftEyeStart)
}

// RightEye returns the six-point contour of the right eye.
func (f Face) RightEye() ear.Contour {
	return f.eye(RightEyeStart)
}

func (f Face) eye(start int) ear.Contour {
	var c ear.Contour
	copy(c[:], f.Points[start:start+ear.NumPoints])
	return c
}

// Provider is the interface for facial landmark backends.
type Provider interface {
	// Detect finds faces in the JPEG image and returns their landmarks.
	// An empty result with nil error means no face was found.
	Detect(jpeg []byte) ([]Face, error)

	// Close releases resources.
	Close() error
}

// SelectBest picks the best face from multiple detections.
// Priority: confidence * 0.7 + area * 0.3.
func SelectBest(faces []Face) *Face {
	if len(faces) == 0 {
		return nil
	}

	if len(faces) == 1 {
		return &faces[0]
	}

	// Find max area for normalization
	maxArea := 0.0
	for _, f := range faces {
		if f.Area() > maxArea {
			maxArea = f.Area()
		}
	}

	bestScore := -1.0
	var best *Face

	for i := range faces {
		score := faces[i].Confidence * 0.7
		if maxArea > 0 {
			score += (faces[i].Area() / maxArea) * 0.3
		}
		if score > bestScore {
			bestScore = score
			best = &faces[i]
		}
	}

	return best
}
