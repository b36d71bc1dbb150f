package landmarks

import (
	"sync"

	"github.com/vigil-labs/go-vigil/pkg/ear"
)

// MockProvider is a scripted landmark provider for testing. Each call
// to Detect returns the next scripted result, repeating the last one
// when the script runs out.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResult
	pos    int
	calls  int
	closed bool
}

// MockResult is one scripted Detect outcome.
type MockResult struct {
	Faces []Face
	Err   error
}

// NewMock creates a mock provider with the given script.
func NewMock(script ...MockResult) *MockProvider {
	return &MockProvider{script: script}
}

// Detect returns the next scripted result.
func (m *MockProvider) Detect(jpeg []byte) ([]Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if len(m.script) == 0 {
		return nil, nil
	}

	r := m.script[m.pos]
	if m.pos < len(m.script)-1 {
		m.pos++
	}
	return r.Faces, r.Err
}

// Calls returns how many times Detect has been invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the provider closed.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FaceWithEAR builds a synthetic face whose eye contours both measure
// the given eye aspect ratio. Useful for driving the monitor loop in
// tests without real landmark data.
func FaceWithEAR(ratio float64) Face {
	f := Face{X: 0.4, Y: 0.3, W: 0.2, H: 0.3, Confidence: 0.95}

	// Horizontal span 10 means each vertical pair spans 10*ratio.
	half := 5 * ratio
	eye := func(originX, originY float64) [ear.NumPoints]ear.Point {
		return [ear.NumPoints]ear.Point{
			{originX, originY},
			{originX + 3, originY + half},
			{originX + 7, originY + half},
			{originX + 10, originY},
			{originX + 7, originY - half},
			{originX + 3, originY - half},
		}
	}

	right := eye(100, 100)
	left := eye(130, 100)
	copy(f.Points[RightEyeStart:RightEyeEnd], right[:])
	copy(f.Points[LeftEyeStart:LeftEyeEnd], left[:])
	return f
}
