package drowsiness

// Window is a bounded FIFO of recent EAR samples used to damp
// single-frame landmark noise. Pushing beyond capacity evicts the
// oldest sample.
type Window struct {
	samples  []float64
	capacity int
}

// NewWindow creates a smoothing window with the given capacity.
// Capacities below 1 are treated as 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		samples:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a sample, evicting the oldest if the window is full,
// and returns the arithmetic mean of the retained samples.
func (w *Window) Push(sample float64) float64 {
	if len(w.samples) == w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples[len(w.samples)-1] = sample
	} else {
		w.samples = append(w.samples, sample)
	}

	sum := 0.0
	for _, s := range w.samples {
		sum += s
	}
	return sum / float64(len(w.samples))
}

// Len returns the number of samples currently retained.
func (w *Window) Len() int {
	return len(w.samples)
}

// Reset discards all retained samples. Used on face loss so stale
// history does not leak across a detection gap.
func (w *Window) Reset() {
	w.samples = w.samples[:0]
}
