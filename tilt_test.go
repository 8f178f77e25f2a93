package folio

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func newTiltScene(cfg TiltConfig) (*Scene, *Node, *Tilt) {
	s := newInputScene()
	card := addCard(s, "card", 100, 100, 200, 100)
	return s, card, NewTilt(s, card, cfg)
}

func TestTiltTracksPointer(t *testing.T) {
	s, _, tilt := newTiltScene(TiltConfig{Amount: 10, GlareOpacity: 0.6})

	// Right edge, vertical center.
	s.InjectMove(300, 150)
	s.Step(frame)

	tr := tilt.Transform()
	assertNear(t, "RotateX", tr.RotateX, 0)
	assertNear(t, "RotateY", tr.RotateY, 10)
	assertNear(t, "GlareX", tr.GlareX, 100)
	assertNear(t, "GlareY", tr.GlareY, 50)
	assertNear(t, "GlareAlpha", tr.GlareAlpha, 0.6)
	assertNear(t, "Perspective", tr.Perspective, DefaultPerspective)

	st := tilt.State()
	if !st.Active || !st.HasOffset {
		t.Errorf("state = %+v, want active with offset", st)
	}
	assertNear(t, "offset.X", st.Offset.X, 0.5)

	// Top edge, horizontal center: the top tips away.
	s.InjectMove(200, 100)
	s.Step(frame)
	tr = tilt.Transform()
	assertNear(t, "RotateX", tr.RotateX, 10)
	assertNear(t, "RotateY", tr.RotateY, 0)
	assertNear(t, "GlareY", tr.GlareY, 0)
}

func TestTiltDependsOnlyOnLatestSample(t *testing.T) {
	s, _, tilt := newTiltScene(TiltConfig{Amount: 8})

	s.InjectMove(150, 120)
	s.Step(frame)
	first := tilt.Transform()

	s.InjectPath(150, 120, 290, 190, 5)
	s.InjectMove(150, 120)
	for i := 0; i < 6; i++ {
		s.Step(frame)
	}
	if tilt.Transform() != first {
		t.Errorf("transform = %+v, want %+v after returning to the same point", tilt.Transform(), first)
	}
}

func TestTiltRotationBounded(t *testing.T) {
	for _, o := range []Vec2{{-3, 0}, {3, 0}, {0, -3}, {0, 3}, {0.5, -0.5}, {-0.2, 0.4}} {
		rx, ry := TiltRotation(o, 7)
		if math.Abs(rx) > 7+epsilon || math.Abs(ry) > 7+epsilon {
			t.Errorf("TiltRotation(%v) = (%v, %v), exceeds 7", o, rx, ry)
		}
	}
	rx, ry := TiltRotation(Vec2{}, 5)
	if math.Signbit(rx) || math.Signbit(ry) {
		t.Errorf("neutral rotation = (%v, %v), want positive zeros", rx, ry)
	}
}

func TestTiltRotationContinuous(t *testing.T) {
	prevX, prevY := TiltRotation(Vec2{X: -0.5, Y: -0.5}, 10)
	for i := 1; i <= 100; i++ {
		o := Vec2{X: -0.5 + float64(i)*0.01, Y: -0.5 + float64(i)*0.01}
		rx, ry := TiltRotation(o, 10)
		if math.Abs(rx-prevX) > 0.2+epsilon || math.Abs(ry-prevY) > 0.2+epsilon {
			t.Fatalf("jump at step %d: (%v, %v) -> (%v, %v)", i, prevX, prevY, rx, ry)
		}
		prevX, prevY = rx, ry
	}
}

func TestPointerOffset(t *testing.T) {
	b := Rect{X: 100, Y: 100, Width: 200, Height: 100}
	o, ok := PointerOffset(200, 150, b)
	if !ok || o != (Vec2{}) {
		t.Errorf("center offset = %v ok=%v", o, ok)
	}
	o, _ = PointerOffset(0, 1000, b)
	if o != (Vec2{X: -0.5, Y: 0.5}) {
		t.Errorf("clamped offset = %v", o)
	}
	if _, ok := PointerOffset(0, 0, Rect{Width: 0, Height: 10}); ok {
		t.Error("zero-width bounds should report no offset")
	}
}

func TestGlarePosition(t *testing.T) {
	g := GlarePosition(Vec2{X: -0.5, Y: 0.25})
	assertNear(t, "X", g.X, 0)
	assertNear(t, "Y", g.Y, 75)
	g = GlarePosition(Vec2{X: 9, Y: -9})
	assertNear(t, "X", g.X, 100)
	assertNear(t, "Y", g.Y, 0)
}

func TestTiltResetsToExactNeutral(t *testing.T) {
	s, card, tilt := newTiltScene(TiltConfig{Amount: 10, GlareOpacity: 0.5})
	card.EntityID = 4
	store := &recordingStore{}
	s.SetEntityStore(store)

	s.InjectMove(290, 110)
	s.Step(0.1)
	s.InjectMove(600, 500)
	s.Step(0.1)

	st := tilt.State()
	if st.Active || st.HasOffset {
		t.Errorf("state after leave = %+v", st)
	}
	if !tilt.Resetting() {
		t.Fatal("expected a reset in progress")
	}
	mid := tilt.Transform()
	if mid.RotateY <= 0 || mid.RotateY >= 10 {
		t.Errorf("mid-reset RotateY = %v, want between 0 and 10", mid.RotateY)
	}

	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}
	tr := tilt.Transform()
	if tr.RotateX != 0 || tr.RotateY != 0 || tr.GlareAlpha != 0 {
		t.Errorf("settled transform = %+v, want exact zeros", tr)
	}
	if !tr.Neutral() || tilt.Resetting() {
		t.Error("tilt should be neutral and idle")
	}
	if store.count(EventTiltSettled) != 1 {
		t.Errorf("TiltSettled events = %d, want 1", store.count(EventTiltSettled))
	}
}

func TestTiltReenterCancelsReset(t *testing.T) {
	s, _, tilt := newTiltScene(TiltConfig{Amount: 10, ResetDuration: 1, Ease: ease.Linear})

	s.InjectMove(300, 150)
	s.Step(0.1)
	s.InjectLeave()
	s.Step(0.1)
	if !tilt.Resetting() {
		t.Fatal("expected reset after leave")
	}

	s.InjectMove(250, 150)
	s.Step(0.1)
	if tilt.Resetting() {
		t.Error("enter should cancel the reset")
	}
	for i := 0; i < 3; i++ {
		s.Step(0.1)
	}
	assertNear(t, "RotateY", tilt.Transform().RotateY, 5)
}

func TestTiltNoTiltKeepsGlare(t *testing.T) {
	s, _, tilt := newTiltScene(TiltConfig{NoTilt: true, Amount: 20, GlareOpacity: 0.4})
	s.InjectMove(290, 110)
	s.Step(frame)

	tr := tilt.Transform()
	if tr.RotateX != 0 || tr.RotateY != 0 {
		t.Errorf("rotation = (%v, %v), want none", tr.RotateX, tr.RotateY)
	}
	assertNear(t, "GlareAlpha", tr.GlareAlpha, 0.4)
	if tr.GlareX <= 50 || tr.GlareY >= 50 {
		t.Errorf("glare = (%v, %v), want toward the top right", tr.GlareX, tr.GlareY)
	}
}

func TestTiltIgnoresOtherNodes(t *testing.T) {
	s, _, tilt := newTiltScene(TiltConfig{})
	addCard(s, "other", 400, 100, 100, 100)
	s.InjectMove(450, 150)
	s.Step(frame)
	if tilt.State().Active || !tilt.Transform().Neutral() {
		t.Error("tilt reacted to a pointer over another node")
	}
}

func TestTiltDisposeMidReset(t *testing.T) {
	s, card, tilt := newTiltScene(TiltConfig{Amount: 10})
	s.InjectMove(300, 150)
	s.Step(0.1)
	s.InjectLeave()
	s.Step(0.1)
	before := tilt.Transform()

	card.Dispose()
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}

	if !tilt.Closed() {
		t.Error("dispose should close the tilt")
	}
	if card.ListenerCount() != 0 {
		t.Errorf("ListenerCount = %d, want 0", card.ListenerCount())
	}
	if tilt.Transform() != before {
		t.Errorf("transform changed after dispose: %+v -> %+v", before, tilt.Transform())
	}
	if tilt.Resetting() {
		t.Error("reset should be cancelled")
	}
	tilt.Close()
}

func TestTiltSecondAttachReplacesFirst(t *testing.T) {
	s, card, first := newTiltScene(TiltConfig{})
	second := NewTilt(s, card, TiltConfig{Amount: 2})

	if !first.Closed() || second.Closed() {
		t.Errorf("first closed=%v second closed=%v", first.Closed(), second.Closed())
	}
	if card.Tilt() != second {
		t.Error("node should reference the second tilt")
	}
	if card.ListenerCount() != 3 {
		t.Errorf("ListenerCount = %d, want 3", card.ListenerCount())
	}
	first.Close()
	if card.Tilt() != second {
		t.Error("closing a replaced tilt must not detach the new one")
	}
}

func TestTiltConfigResolve(t *testing.T) {
	c := TiltConfig{}.resolve()
	if c.Amount != DefaultTiltAmount || c.Perspective != DefaultPerspective ||
		c.ResetDuration != DefaultTiltResetTime || c.Ease == nil || c.GlareOpacity != 0 {
		t.Errorf("defaults = %+v", c)
	}
	if c := (TiltConfig{Amount: -3}).resolve(); c.Amount != 0 {
		t.Errorf("negative amount = %v, want 0", c.Amount)
	}
	if c := (TiltConfig{NoTilt: true, Amount: 9}).resolve(); c.Amount != 0 {
		t.Errorf("NoTilt amount = %v, want 0", c.Amount)
	}
	if c := (TiltConfig{GlareOpacity: 1.5}).resolve(); c.GlareOpacity != 1 {
		t.Errorf("glare = %v, want 1", c.GlareOpacity)
	}
}

func TestProjectQuadNeutral(t *testing.T) {
	q := ProjectQuad(200, 100, 0, 0, 1000)
	want := [4]Vec2{{-100, -50}, {100, -50}, {100, 50}, {-100, 50}}
	if q != want {
		t.Errorf("quad = %v, want %v", q, want)
	}
}

func TestProjectQuadRotateY(t *testing.T) {
	q := ProjectQuad(200, 100, 0, 10, 1000)
	left := q[3].Y - q[0].Y
	right := q[2].Y - q[1].Y
	if right >= left {
		t.Errorf("right edge %v should be shorter than left edge %v", right, left)
	}
	if q[1].X >= 100 {
		t.Errorf("right edge x = %v, want foreshortened", q[1].X)
	}
}

func TestProjectQuadRotateX(t *testing.T) {
	q := ProjectQuad(200, 100, 10, 0, 1000)
	top := q[1].X - q[0].X
	bottom := q[2].X - q[3].X
	if top >= bottom {
		t.Errorf("top edge %v should be shorter than bottom edge %v", top, bottom)
	}
}

func TestTiltKeepsTrackingOverInteractableChild(t *testing.T) {
	s, card, tilt := newTiltScene(TiltConfig{Amount: 10, GlareOpacity: 0.5})
	addButton(card)

	s.InjectMove(110, 110)
	s.Step(frame)
	s.InjectMove(140, 135) // over the button
	s.Step(frame)

	if !tilt.State().Active || tilt.Resetting() {
		t.Fatalf("state = %+v resetting=%v, want card still active", tilt.State(), tilt.Resetting())
	}
	tr := tilt.Transform()
	assertNear(t, "RotateX", tr.RotateX, 3)
	assertNear(t, "RotateY", tr.RotateY, -6)

	s.InjectMove(500, 500)
	s.Step(frame)
	if !tilt.Resetting() {
		t.Error("leaving the card from the button should start the reset")
	}
}
