package folio

// VisibilityEntry describes a node's intersection with the viewport at the
// moment an observer fires.
type VisibilityEntry struct {
	Node    *Node
	Ratio   float64 // visible fraction of the node's layout bounds, [0, 1]
	Visible bool    // Ratio crossed the observer's threshold
}

type visibilityObserver struct {
	id        uint32
	node      *Node
	threshold float64
	fn        func(VisibilityEntry)
	seen      bool // at least one entry delivered
	visible   bool
	dead      bool
}

// ObserverHandle disconnects a visibility observer registered with
// Scene.Observe.
type ObserverHandle struct {
	obs *visibilityObserver
}

// Disconnect stops the observer. The callback will not run again, even if
// Disconnect is called from inside it. Safe to call more than once.
func (h ObserverHandle) Disconnect() {
	if h.obs != nil {
		h.obs.dead = true
		h.obs.fn = nil
	}
}

// Active reports whether the observer is still connected.
func (h ObserverHandle) Active() bool {
	return h.obs != nil && !h.obs.dead
}

// Observe registers fn to be called when node's visibility against the
// primary camera changes. Visibility is evaluated once per Update after
// transforms and cameras are refreshed; the first evaluation always delivers
// an entry, later ones only deliver threshold crossings.
//
// threshold is the minimum visible fraction of the node's layout bounds that
// counts as visible, clamped to [0, 1]. With threshold 0 any overlap counts.
func (s *Scene) Observe(node *Node, threshold float64, fn func(VisibilityEntry)) ObserverHandle {
	s.nextObserverID++
	obs := &visibilityObserver{
		id:        s.nextObserverID,
		node:      node,
		threshold: clamp(threshold, 0, 1),
		fn:        fn,
	}
	s.observers = append(s.observers, obs)
	return ObserverHandle{obs: obs}
}

// ObserverCount returns the number of connected visibility observers.
func (s *Scene) ObserverCount() int {
	n := 0
	for _, o := range s.observers {
		if !o.dead {
			n++
		}
	}
	return n
}

// IntersectionRatio returns the fraction of bounds that lies inside viewport.
// A zero-area bounds counts as fully visible when its origin lies inside the
// viewport, and invisible otherwise.
func IntersectionRatio(bounds, viewport Rect) float64 {
	area := bounds.Area()
	if area == 0 {
		if viewport.Contains(bounds.X, bounds.Y) {
			return 1
		}
		return 0
	}
	return clamp(bounds.Intersection(viewport).Area()/area, 0, 1)
}

// isVisible applies the threshold rule to a ratio.
func isVisible(ratio, threshold float64) bool {
	if threshold <= 0 {
		return ratio > 0
	}
	return ratio >= threshold
}

// viewBounds returns the world-space rectangle observers are evaluated
// against. ok is false while the scene has neither a camera nor a laid-out
// screen.
func (s *Scene) viewBounds() (Rect, bool) {
	if cam := s.PrimaryCamera(); cam != nil {
		return cam.VisibleBounds(), true
	}
	if s.screen.Area() > 0 {
		return s.screen, true
	}
	return Rect{}, false
}

// evaluateObservers runs every connected observer once. Observers registered
// by a callback are evaluated on the next frame.
func (s *Scene) evaluateObservers() {
	view, ok := s.viewBounds()
	if !ok {
		return
	}
	count := len(s.observers)
	for i := 0; i < count; i++ {
		o := s.observers[i]
		if o.dead {
			continue
		}
		if o.node.IsDisposed() {
			o.dead = true
			continue
		}
		ratio := 0.0
		if o.node.Visible {
			ratio = IntersectionRatio(o.node.LayoutBounds(), view)
		}
		visible := isVisible(ratio, o.threshold)
		if o.seen && visible == o.visible {
			continue
		}
		o.seen = true
		o.visible = visible
		if o.fn != nil {
			o.fn(VisibilityEntry{Node: o.node, Ratio: ratio, Visible: visible})
		}
	}
	s.compactObservers()
}

func (s *Scene) compactObservers() {
	live := s.observers[:0]
	for _, o := range s.observers {
		if !o.dead {
			live = append(live, o)
		}
	}
	for i := len(live); i < len(s.observers); i++ {
		s.observers[i] = nil
	}
	s.observers = live
}
