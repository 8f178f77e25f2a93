package folio

import (
	"testing"
)

func assertNodeDefaults(t *testing.T, n *Node, name string) {
	t.Helper()
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.ID == 0 {
		t.Error("ID should be assigned")
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 || n.DisplayAlpha != 1 || n.DisplayScale != 1 {
		t.Errorf("Alpha/DisplayAlpha/DisplayScale = %v/%v/%v, want 1", n.Alpha, n.DisplayAlpha, n.DisplayScale)
	}
	if !n.Visible {
		t.Error("Visible should default to true")
	}
}

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("c")
	assertNodeDefaults(t, n, "c")
	if n.Interactable {
		t.Error("containers are not interactable")
	}
	if n.Color != ColorWhite {
		t.Errorf("Color = %+v, want white", n.Color)
	}
}

func TestNewCardDefaults(t *testing.T) {
	n := NewCard("card", nil, 200, 100)
	assertNodeDefaults(t, n, "card")
	if !n.Interactable {
		t.Error("cards are interactable")
	}
	if n.Width != 200 || n.Height != 100 {
		t.Errorf("size = %vx%v, want 200x100", n.Width, n.Height)
	}
}

func TestNewRect(t *testing.T) {
	c := Color{R: 1, A: 1}
	n := NewRect("bg", c, 10, 20)
	assertNodeDefaults(t, n, "bg")
	if n.Interactable || n.Color != c {
		t.Errorf("rect: interactable=%v color=%+v", n.Interactable, n.Color)
	}
}

func TestNodeIDsUnique(t *testing.T) {
	a, b := NewContainer("a"), NewContainer("b")
	if a.ID == b.ID {
		t.Errorf("IDs collide: %d", a.ID)
	}
}

func TestAddChildReparents(t *testing.T) {
	p1, p2, c := NewContainer("p1"), NewContainer("p2"), NewContainer("c")
	p1.AddChild(c)
	p2.AddChild(c)

	if c.Parent != p2 {
		t.Error("child should move to new parent")
	}
	if p1.NumChildren() != 0 || p2.NumChildren() != 1 {
		t.Errorf("children: p1=%d p2=%d", p1.NumChildren(), p2.NumChildren())
	}
}

func TestAddChildPanics(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		NewContainer("p").AddChild(nil)
	})
	t.Run("cycle", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		a, b := NewContainer("a"), NewContainer("b")
		a.AddChild(b)
		b.AddChild(a)
	})
}

func TestRemoveChild(t *testing.T) {
	p, c := NewContainer("p"), NewContainer("c")
	p.AddChild(c)
	c.RemoveFromParent()
	if c.Parent != nil || p.NumChildren() != 0 {
		t.Error("RemoveFromParent did not detach")
	}
	c.RemoveFromParent() // no-op

	defer func() {
		if recover() == nil {
			t.Error("RemoveChild of a non-child should panic")
		}
	}()
	p.RemoveChild(c)
}

func TestSortedChildrenByZIndex(t *testing.T) {
	p := NewContainer("p")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(c)
	a.SetZIndex(2)
	c.SetZIndex(-1)

	got := sortedChildrenOf(p)
	want := []*Node{c, b, a}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, got[i].Name, want[i].Name)
		}
	}
	// Insertion order is kept for equal ZIndex.
	a.SetZIndex(0)
	got = sortedChildrenOf(p)
	if got[0] != c || got[1] != a || got[2] != b {
		t.Errorf("stable order = %s %s %s", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestAddListenerAndRemove(t *testing.T) {
	n := NewCard("n", nil, 10, 10)
	var calls []string
	h1 := n.AddListener(EventPointerEnter, func(PointerContext) { calls = append(calls, "enter1") })
	n.AddListener(EventPointerEnter, func(PointerContext) { calls = append(calls, "enter2") })
	n.AddListener(EventPointerLeave, func(PointerContext) { calls = append(calls, "leave") })

	if n.ListenerCount() != 3 {
		t.Fatalf("ListenerCount = %d, want 3", n.ListenerCount())
	}

	n.dispatch(EventPointerEnter, PointerContext{Node: n})
	if len(calls) != 2 || calls[0] != "enter1" || calls[1] != "enter2" {
		t.Errorf("calls = %v", calls)
	}

	h1.Remove()
	h1.Remove() // idempotent
	calls = nil
	n.dispatch(EventPointerEnter, PointerContext{Node: n})
	if len(calls) != 1 || calls[0] != "enter2" {
		t.Errorf("after remove calls = %v", calls)
	}
	if n.ListenerCount() != 2 {
		t.Errorf("ListenerCount = %d, want 2", n.ListenerCount())
	}
}

func TestAddListenerUnsupportedType(t *testing.T) {
	n := NewCard("n", nil, 10, 10)
	h := n.AddListener(EventRevealTriggered, func(PointerContext) {})
	if n.ListenerCount() != 0 {
		t.Error("non-pointer events should not register")
	}
	h.Remove()
}

func TestListenerMayRemoveItself(t *testing.T) {
	n := NewCard("n", nil, 10, 10)
	count := 0
	var h ListenerHandle
	h = n.AddListener(EventPointerMove, func(PointerContext) {
		count++
		h.Remove()
	})
	n.dispatch(EventPointerMove, PointerContext{})
	n.dispatch(EventPointerMove, PointerContext{})
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestDispatchStopsWhenNodeDisposed(t *testing.T) {
	n := NewCard("n", nil, 10, 10)
	second := false
	n.AddListener(EventPointerEnter, func(PointerContext) { n.Dispose() })
	n.AddListener(EventPointerEnter, func(PointerContext) { second = true })
	n.dispatch(EventPointerEnter, PointerContext{})
	if second {
		t.Error("listener ran after the node was disposed")
	}
}

func TestOnDisposeOrder(t *testing.T) {
	n := NewContainer("n")
	var order []int
	n.OnDispose(func() { order = append(order, 1) })
	h := n.OnDispose(func() { order = append(order, 2) })
	n.OnDispose(func() { order = append(order, 3) })
	h.Remove()

	n.Dispose()
	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("dispose order = %v, want [3 1]", order)
	}
}

func TestDisposeRecursive(t *testing.T) {
	root := NewContainer("root")
	p := NewContainer("p")
	c := NewCard("c", nil, 10, 10)
	root.AddChild(p)
	p.AddChild(c)

	childHook := false
	c.OnDispose(func() { childHook = true })
	c.AddListener(EventPointerMove, func(PointerContext) {})

	p.Dispose()

	if !p.IsDisposed() || !c.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if !childHook {
		t.Error("descendant dispose hook did not run")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node should be removed from its parent")
	}
	if c.ListenerCount() != 0 {
		t.Error("listeners should be cleared")
	}
	if p.ID != 0 {
		t.Error("ID should be cleared")
	}
	p.Dispose() // no-op
}
