package steering

import "github.com/pthm-cable/steer/geom"

// Smoother averages the last N samples of a vector. Used to take the jitter out
// of rendered headings.
type Smoother struct {
	history []geom.Vector2D
	next    int
}

// NewSmoother creates a smoother with samples slots filled with zero.
func NewSmoother(samples int, zero geom.Vector2D) *Smoother {
	if samples < 1 {
		samples = 1
	}
	h := make([]geom.Vector2D, samples)
	for i := range h {
		h[i] = zero
	}
	return &Smoother{history: h}
}

// Update records v and returns the current average.
func (s *Smoother) Update(v geom.Vector2D) geom.Vector2D {
	s.history[s.next] = v
	s.next = (s.next + 1) % len(s.history)

	var sum geom.Vector2D
	for _, h := range s.history {
		sum.AddInPlace(h)
	}
	return sum.Div(float64(len(s.history)))
}
