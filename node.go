package folio

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	PointerID int
}

// --- ID counter ---

// nodeIDCounter is a plain counter; folio is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the scene graph element. Every visual element on a showcase page
// (cards, headings, backgrounds) is a Node; containers are Nodes with no
// Image and zero size.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Layout (local)
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64
	PivotX        float64
	PivotY        float64

	// Display overlay, applied on top of layout. Written by Reveal; scaling
	// is around the node's center. Hit testing follows the displayed
	// geometry, visibility observation follows layout.
	DisplayX     float64
	DisplayY     float64
	DisplayScale float64
	DisplayAlpha float64

	// Computed (unexported, updated by updateWorldTransform)
	worldTransform  [6]float64
	layoutTransform [6]float64
	worldAlpha      float64
	transformDirty  bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any
	EntityID uint32

	// Appearance. A nil Image draws a solid Color rectangle of Width x Height.
	Image *ebiten.Image
	Color Color

	// OnUpdate is called once per frame with the frame delta in seconds.
	OnUpdate func(dt float64)

	listeners nodeListeners
	disposers []disposer
	tilt      *Tilt

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.DisplayScale = 1
	n.DisplayAlpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a group node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewCard creates an interactable node of the given size. img may be nil,
// in which case the card is drawn as a solid Color rectangle.
func NewCard(name string, img *ebiten.Image, width, height float64) *Node {
	n := &Node{Name: name, Image: img, Width: width, Height: height}
	nodeDefaults(n)
	n.Interactable = true
	return n
}

// NewRect creates a non-interactable solid color rectangle.
func NewRect(name string, c Color, width, height float64) *Node {
	n := &Node{Name: name, Width: width, Height: height}
	nodeDefaults(n)
	n.Color = c
	return n
}

// --- Per-node listeners ---

type nodeListener struct {
	id uint32
	fn func(PointerContext)
}

type nodeListeners struct {
	move   []nodeListener
	enter  []nodeListener
	leave  []nodeListener
	nextID uint32
}

// ListenerHandle removes a listener or dispose hook registered on a node.
type ListenerHandle struct {
	id    uint32
	node  *Node
	event EventType
	hook  bool
}

// Remove unregisters the listener. Safe to call more than once and after the
// node has been disposed.
func (h ListenerHandle) Remove() {
	if h.node == nil {
		return
	}
	n := h.node
	if h.hook {
		for i := range n.disposers {
			if n.disposers[i].id == h.id {
				n.disposers = append(n.disposers[:i], n.disposers[i+1:]...)
				return
			}
		}
		return
	}
	switch h.event {
	case EventPointerMove:
		n.listeners.move = removeNodeListener(n.listeners.move, h.id)
	case EventPointerEnter:
		n.listeners.enter = removeNodeListener(n.listeners.enter, h.id)
	case EventPointerLeave:
		n.listeners.leave = removeNodeListener(n.listeners.leave, h.id)
	}
}

func removeNodeListener(s []nodeListener, id uint32) []nodeListener {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nodeListener{}
			return s[:len(s)-1]
		}
	}
	return s
}

// AddListener registers fn for pointer events of the given type on this node
// only. Only EventPointerMove, EventPointerEnter and EventPointerLeave are
// dispatched to nodes; other types return a no-op handle.
func (n *Node) AddListener(event EventType, fn func(PointerContext)) ListenerHandle {
	if globalDebug {
		debugCheckDisposed(n, "AddListener")
	}
	n.listeners.nextID++
	id := n.listeners.nextID
	l := nodeListener{id: id, fn: fn}
	switch event {
	case EventPointerMove:
		n.listeners.move = append(n.listeners.move, l)
	case EventPointerEnter:
		n.listeners.enter = append(n.listeners.enter, l)
	case EventPointerLeave:
		n.listeners.leave = append(n.listeners.leave, l)
	default:
		return ListenerHandle{}
	}
	return ListenerHandle{id: id, node: n, event: event}
}

// ListenerCount returns the number of pointer listeners registered on the node.
func (n *Node) ListenerCount() int {
	return len(n.listeners.move) + len(n.listeners.enter) + len(n.listeners.leave)
}

// dispatch runs every listener for the event. The slice is copied so that
// listeners may remove themselves.
func (n *Node) dispatch(event EventType, ctx PointerContext) {
	var src []nodeListener
	switch event {
	case EventPointerMove:
		src = n.listeners.move
	case EventPointerEnter:
		src = n.listeners.enter
	case EventPointerLeave:
		src = n.listeners.leave
	}
	if len(src) == 0 {
		return
	}
	buf := make([]nodeListener, len(src))
	copy(buf, src)
	for _, l := range buf {
		if n.disposed {
			return
		}
		l.fn(ctx)
	}
}

type disposer struct {
	id uint32
	fn func()
}

// OnDispose registers fn to run when the node is disposed. Hooks run in
// reverse registration order.
func (n *Node) OnDispose(fn func()) ListenerHandle {
	n.listeners.nextID++
	id := n.listeners.nextID
	n.disposers = append(n.disposers, disposer{id: id, fn: fn})
	return ListenerHandle{id: id, node: n, hook: true}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("folio: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("folio: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("folio: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// Tilt returns the tilt interaction attached to this node, or nil.
func (n *Node) Tilt() *Tilt {
	return n.tilt
}

// --- Disposal ---

// Dispose removes this node from its parent, runs its dispose hooks, marks it
// as disposed, and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	// Hooks may remove themselves, so run a detached copy.
	hooks := n.disposers
	n.disposers = nil
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i].fn()
	}
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.Image = nil
	n.UserData = nil
	n.OnUpdate = nil
	n.listeners = nodeListeners{}
	n.tilt = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// sortedChildrenOf returns n's children in ZIndex order, stable on insertion order.
func sortedChildrenOf(n *Node) []*Node {
	if n.childrenSorted && n.sortedChildren == nil {
		return n.children
	}
	if !n.childrenSorted {
		nc := len(n.children)
		if cap(n.sortedChildren) < nc {
			n.sortedChildren = make([]*Node, nc)
		}
		n.sortedChildren = n.sortedChildren[:nc]
		copy(n.sortedChildren, n.children)
		// Stable insertion sort by ZIndex.
		for i := 1; i < nc; i++ {
			key := n.sortedChildren[i]
			j := i - 1
			for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
				n.sortedChildren[j+1] = n.sortedChildren[j]
				j--
			}
			n.sortedChildren[j+1] = key
		}
		n.childrenSorted = true
	}
	return n.sortedChildren
}
