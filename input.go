package folio

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	mousePointer      = 0  // folio tracks a single hovering pointer
	defaultWheelStep  = 40 // world units scrolled per wheel notch
	pointerEpsilonPos = 1e-9
)

// --- Per-pointer state ---

type pointerState struct {
	inside    bool
	screenX   float64
	screenY   float64
	lastX     float64
	lastY     float64
	hoverNode *Node // last node the pointer was hovering over (for enter/leave)
	// hoverChain is hoverNode plus its interactable ancestors, deepest
	// first. Every node in it counts as hovered.
	hoverChain []*Node
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type handlerRegistry struct {
	pointerMove  []pointerHandler
	pointerEnter []pointerHandler
	pointerLeave []pointerHandler
	nextID       uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerMove:
		h.reg.pointerMove = removePointerHandler(h.reg.pointerMove, h.id)
	case EventPointerEnter:
		h.reg.pointerEnter = removePointerHandler(h.reg.pointerEnter, h.id)
	case EventPointerLeave:
		h.reg.pointerLeave = removePointerHandler(h.reg.pointerLeave, h.id)
	}
}

func removePointerHandler(s []pointerHandler, id uint32) []pointerHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = pointerHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// --- Scene-level event registration ---

// OnPointerMove registers a scene-level callback for pointer move events.
// Node is nil when the pointer moves over empty space.
func (s *Scene) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerMove = append(s.handlers.pointerMove, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerMove}
}

// OnPointerEnter registers a scene-level callback for pointer enter events.
// Fired when the pointer moves over a new node (or from nil to a node).
func (s *Scene) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerEnter = append(s.handlers.pointerEnter, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerEnter}
}

// OnPointerLeave registers a scene-level callback for pointer leave events.
// Fired when the pointer leaves a node (to a different node, to empty space,
// or out of the window).
func (s *Scene) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.pointerLeave = append(s.handlers.pointerLeave, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerLeave}
}

// HoveredNode returns the node currently under the pointer, or nil.
func (s *Scene) HoveredNode() *Node {
	return s.pointer.hoverNode
}

// --- Hit testing ---

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending interactable sized nodes to buf. Skips Visible=false subtrees.
func collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible {
		return buf
	}
	if n.Interactable && n.Width > 0 && n.Height > 0 {
		buf = append(buf, n)
	}
	for _, child := range sortedChildrenOf(n) {
		buf = collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = collectInteractable(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		if n.WorldBounds().Contains(worldX, worldY) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processInput is called from Scene.Step() to handle pointer and wheel input.
// World transforms are already refreshed by the caller.
func (s *Scene) processInput() {
	cam := s.PrimaryCamera()
	if cam != nil {
		cam.computeViewMatrix()
	}

	if s.processInjectedInput(cam) {
		return
	}
	if s.synthetic {
		// Scripted scenes hold their last injected sample instead of reading
		// the device, so the real cursor can not interfere.
		wx, wy := screenToWorld(cam, s.pointer.screenX, s.pointer.screenY)
		s.processPointer(wx, wy, s.pointer.inside)
		return
	}

	mx, my := ebiten.CursorPosition()
	sx, sy := float64(mx), float64(my)
	s.pointer.screenX, s.pointer.screenY = sx, sy
	inside := s.screen.Area() > 0 && s.screen.Contains(sx, sy)
	wx, wy := screenToWorld(cam, sx, sy)
	s.processPointer(wx, wy, inside)

	if _, dy := ebiten.Wheel(); dy != 0 && cam != nil {
		cam.ScrollBy(0, -dy*s.WheelStep)
	}
}

// screenToWorld converts screen coordinates to world coordinates using the primary camera.
func screenToWorld(cam *Camera, sx, sy float64) (float64, float64) {
	if cam != nil {
		return cam.ScreenToWorld(sx, sy)
	}
	return sx, sy
}

// processPointer runs the hover state machine. inside=false means the pointer
// is outside the window: every hovered node receives a leave and nothing is
// hit. A node stays hovered while the pointer is over one of its
// interactable descendants, so moving onto a child fires no leave on the
// parent; move events reach the target and each hovered ancestor.
func (s *Scene) processPointer(wx, wy float64, inside bool) {
	ps := &s.pointer

	var target *Node
	if inside {
		target = s.hitTest(wx, wy)
	}

	moved := !ps.inside && inside ||
		abs(wx-ps.lastX) > pointerEpsilonPos || abs(wy-ps.lastY) > pointerEpsilonPos

	if ps.hoverNode != nil && ps.hoverNode.IsDisposed() {
		ps.hoverNode = nil
	}
	prev := ps.hoverChain
	chain := hoverChain(target, s.chainBuf[:0])

	if target != ps.hoverNode || !sameNodes(prev, chain) {
		// Leaves run deepest first, enters outermost first.
		for _, n := range prev {
			if !n.IsDisposed() && !containsNode(chain, n) {
				s.firePointerEvent(EventPointerLeave, n, wx, wy)
			}
		}
		for i := len(chain) - 1; i >= 0; i-- {
			if !containsNode(prev, chain[i]) {
				s.firePointerEvent(EventPointerEnter, chain[i], wx, wy)
			}
		}
		ps.hoverNode = target
	} else if moved && inside {
		if len(chain) == 0 {
			s.firePointerEvent(EventPointerMove, nil, wx, wy)
		}
		for _, n := range chain {
			s.firePointerEvent(EventPointerMove, n, wx, wy)
		}
	}

	ps.hoverChain, s.chainBuf = chain, prev[:0]
	ps.inside = inside
	ps.lastX = wx
	ps.lastY = wy
}

// hoverChain appends target and its interactable ancestors to buf, deepest
// first. A nil target yields an empty chain.
func hoverChain(target *Node, buf []*Node) []*Node {
	if target == nil {
		return buf
	}
	buf = append(buf, target)
	for p := target.Parent; p != nil; p = p.Parent {
		if p.Interactable {
			buf = append(buf, p)
		}
	}
	return buf
}

func containsNode(nodes []*Node, n *Node) bool {
	for _, m := range nodes {
		if m == n {
			return true
		}
	}
	return false
}

func sameNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// --- Event dispatch ---

func (s *Scene) firePointerEvent(event EventType, node *Node, wx, wy float64) {
	var lx, ly float64
	var entityID uint32
	var userData any
	if node != nil {
		lx, ly = node.WorldToLocal(wx, wy)
		entityID = node.EntityID
		userData = node.UserData
	}
	ctx := PointerContext{
		Node: node, EntityID: entityID, UserData: userData,
		GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly,
		PointerID: mousePointer,
	}

	// Scene-level handlers first.
	var handlers []pointerHandler
	switch event {
	case EventPointerMove:
		handlers = s.handlers.pointerMove
	case EventPointerEnter:
		handlers = s.handlers.pointerEnter
	case EventPointerLeave:
		handlers = s.handlers.pointerLeave
	}
	for _, h := range handlers {
		h.fn(ctx)
	}

	// Per-node listeners.
	if node != nil {
		node.dispatch(event, ctx)
	}

	s.emitInteractionEvent(InteractionEvent{
		Type: event, EntityID: entityID,
		GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly,
	})
}

// --- ECS bridge ---

// emitInteractionEvent forwards an event to the EntityStore if one is set and
// the event belongs to an entity.
func (s *Scene) emitInteractionEvent(evt InteractionEvent) {
	if s.store == nil || evt.EntityID == 0 {
		return
	}
	s.store.EmitEvent(evt)
}
