package folio

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// maxTweenFields is the number of float64 fields a TweenGroup can drive.
const maxTweenFields = 4

// TweenTarget pairs a field with the value it should reach.
type TweenTarget struct {
	Field *float64
	To    float64
}

// TweenGroup animates up to 4 float64 fields simultaneously. Call Update(dt)
// each frame; values are written back after every step and the target node
// is marked dirty. If the target node is disposed, or Cancel is called, the
// group stops immediately without writing.
//
// There is no global animation manager; owners call Update themselves.
type TweenGroup struct {
	tweens    [maxTweenFields]*gween.Tween
	fields    [maxTweenFields]*float64
	ends      [maxTweenFields]float64
	count     int
	target    *Node
	Done      bool
	cancelled bool
}

// TweenFields creates a TweenGroup that animates each target field from its
// current value to To over duration seconds. Targets beyond the fourth are
// ignored. A non-positive duration snaps on the first Update.
func TweenFields(node *Node, duration float32, fn ease.TweenFunc, targets ...TweenTarget) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	if duration <= 0 {
		duration = 1e-6
	}
	g := &TweenGroup{target: node}
	for _, t := range targets {
		if g.count == maxTweenFields || t.Field == nil {
			break
		}
		g.tweens[g.count] = gween.New(float32(*t.Field), float32(t.To), duration, fn)
		g.fields[g.count] = t.Field
		g.ends[g.count] = t.To
		g.count++
	}
	return g
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Finished fields are written with their exact end value so that a
// completed group never leaves float32 rounding residue behind.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.cancelled || (g.target != nil && g.target.IsDisposed()) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		if finished {
			*g.fields[i] = g.ends[i]
		} else {
			*g.fields[i] = float64(val)
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Cancel stops the group. Fields keep whatever value they last received.
// Safe to call on a nil group.
func (g *TweenGroup) Cancel() {
	if g == nil {
		return
	}
	g.cancelled = true
	g.Done = true
}

// TweenDisplay creates a TweenGroup that animates the node's display overlay
// (DisplayAlpha, DisplayX, DisplayY, DisplayScale) to the given style.
func TweenDisplay(node *Node, to RevealStyle, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(node, duration, fn,
		TweenTarget{Field: &node.DisplayAlpha, To: to.Alpha},
		TweenTarget{Field: &node.DisplayX, To: to.OffsetX},
		TweenTarget{Field: &node.DisplayY, To: to.OffsetY},
		TweenTarget{Field: &node.DisplayScale, To: to.Scale},
	)
}

// Timer fires a callback once after a delay measured in frame time. It is
// driven by its owner's Update calls, never by a goroutine, so a stopped
// timer can not fire late.
type Timer struct {
	remaining float64
	fn        func()
	done      bool
}

// NewTimer creates a timer that calls fn after delay seconds of Update time.
// A non-positive delay fires on the first Update.
func NewTimer(delay float64, fn func()) *Timer {
	return &Timer{remaining: delay, fn: fn}
}

// Update advances the timer by dt seconds and fires the callback when the
// delay has elapsed.
func (t *Timer) Update(dt float32) {
	if t == nil || t.done {
		return
	}
	t.remaining -= float64(dt)
	if t.remaining > 1e-9 {
		return
	}
	t.done = true
	if t.fn != nil {
		t.fn()
	}
}

// Stop cancels the timer. Safe to call on a nil or already fired timer.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.done = true
	t.fn = nil
}

// Pending reports whether the timer has neither fired nor been stopped.
func (t *Timer) Pending() bool {
	return t != nil && !t.done
}
