package folio

// syntheticPointerEvent represents a single injected pointer sample.
// Screen coordinates are used and converted to world coordinates via the
// primary camera, identical to real mouse input.
type syntheticPointerEvent struct {
	screenX, screenY float64
	inside           bool
	scrollY          float64
}

// InjectMove queues a pointer sample at the given screen coordinates. The
// event is consumed on the next frame's input pass. Once a scene has received
// injected input it ignores the real cursor.
func (s *Scene) InjectMove(x, y float64) {
	s.synthetic = true
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{
		screenX: x, screenY: y, inside: true,
	})
}

// InjectLeave queues a sample that moves the pointer out of the window.
func (s *Scene) InjectLeave() {
	s.synthetic = true
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{})
}

// InjectScroll queues a page scroll of dy world units on the primary camera.
// The pointer stays where it was.
func (s *Scene) InjectScroll(dy float64) {
	s.synthetic = true
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{scrollY: dy, inside: true})
}

// InjectPath queues pointer samples linearly interpolated from (fromX, fromY)
// to (toX, toY) over the given number of frames (minimum 1).
func (s *Scene) InjectPath(fromX, fromY, toX, toY float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	for i := 1; i <= frames; i++ {
		t := float64(i) / float64(frames)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
}

// SetSyntheticInput switches between injected-only input (true) and real
// device input (false). Clearing it also drops queued injections.
func (s *Scene) SetSyntheticInput(enabled bool) {
	s.synthetic = enabled
	if !enabled {
		s.injectQueue = s.injectQueue[:0]
	}
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer. Returns true if an event was consumed.
func (s *Scene) processInjectedInput(cam *Camera) bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.scrollY != 0 {
		if cam != nil {
			cam.ScrollBy(0, evt.scrollY)
			cam.computeViewMatrix()
		}
		// Re-run hover against the unchanged screen position.
		wx, wy := screenToWorld(cam, s.pointer.screenX, s.pointer.screenY)
		s.processPointer(wx, wy, s.pointer.inside)
		return true
	}

	s.pointer.screenX, s.pointer.screenY = evt.screenX, evt.screenY
	wx, wy := screenToWorld(cam, evt.screenX, evt.screenY)
	s.processPointer(wx, wy, evt.inside)
	return true
}
