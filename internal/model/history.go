package model

import "time"

const defaultTrendCap = 60

// TrendPoint is one fabric-health observation, taken either from a stored
// snapshot or from a live check.
type TrendPoint struct {
	Timestamp time.Time
	Score     int
}

// HealthTrend is a fixed-size ring buffer of TrendPoints in arrival order.
// When the buffer is full, new pushes overwrite the oldest entry.
type HealthTrend struct {
	buf  []TrendPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewHealthTrend creates a HealthTrend with the given capacity.
// If capacity <= 0, the defaultTrendCap (60) is used.
func NewHealthTrend(capacity int) *HealthTrend {
	if capacity <= 0 {
		capacity = defaultTrendCap
	}
	return &HealthTrend{
		buf: make([]TrendPoint, capacity),
	}
}

// Push appends a new point, overwriting the oldest if full.
func (h *HealthTrend) Push(p TrendPoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries.
func (h *HealthTrend) Len() int {
	return h.size
}

// Clear resets the trend to empty.
func (h *HealthTrend) Clear() {
	h.head = 0
	h.size = 0
}

// Scores returns the health scores in chronological order, oldest first.
func (h *HealthTrend) Scores() []float64 {
	out := make([]float64, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = float64(h.buf[(start+i)%len(h.buf)].Score)
	}
	return out
}

// Latest returns the most recent point and whether one exists.
func (h *HealthTrend) Latest() (TrendPoint, bool) {
	if h.size == 0 {
		return TrendPoint{}, false
	}
	idx := (h.head - 1 + len(h.buf)) % len(h.buf)
	return h.buf[idx], true
}
