package surface

import (
	"math"
	"sync"
)

// Scene is an in-memory Surface. It is safe for concurrent use so a host can
// serialize it from another goroutine while a chart redraws.
type Scene struct {
	mu       sync.RWMutex
	elements []Element
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Draw implements Surface.
func (s *Scene) Draw(e Element) {
	s.mu.Lock()
	s.elements = append(s.elements, e)
	s.mu.Unlock()
}

// Clear implements Surface.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.elements = nil
	s.mu.Unlock()
}

// Len implements Surface.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// Elements implements Surface. The returned slice is a copy.
func (s *Scene) Elements() []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Element, len(s.elements))
	copy(out, s.elements)
	return out
}

// Filter returns the elements of the given kind, optionally restricted to a
// class (empty class matches all).
func Filter(elems []Element, kind Kind, class string) []Element {
	var out []Element
	for _, e := range elems {
		if e.Kind != kind {
			continue
		}
		if class != "" && e.Class != class {
			continue
		}
		out = append(out, e)
	}
	return out
}

// HitTest returns the topmost element carrying a tooltip that contains the
// point (x, y), given in surface coordinates. Rects and circles are tested
// exactly. Paths are tested against their bounding box X, Y, W, H when the
// chart sets one; lines are never hit-testable.
func HitTest(elems []Element, x, y float64) (Element, bool) {
	for i := len(elems) - 1; i >= 0; i-- {
		e := elems[i]
		if e.Tooltip == "" {
			continue
		}
		lx, ly := x-e.DX, y-e.DY
		switch e.Kind {
		case KindRect, KindPath:
			if e.W <= 0 || e.H <= 0 {
				continue
			}
			if lx >= e.X && lx <= e.X+e.W && ly >= e.Y && ly <= e.Y+e.H {
				return e, true
			}
		case KindCircle:
			if math.Hypot(lx-e.X, ly-e.Y) <= e.R {
				return e, true
			}
		}
	}
	return Element{}, false
}
