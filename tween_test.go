package folio

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenFieldsReachTargetExactly(t *testing.T) {
	node := NewContainer("n")
	a, b := 0.0, 10.0
	g := TweenFields(node, 0.3, ease.OutCubic,
		TweenTarget{Field: &a, To: 0.3},
		TweenTarget{Field: &b, To: 0},
	)

	for i := 0; i < 10 && !g.Done; i++ {
		g.Update(0.1)
	}
	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if a != 0.3 || b != 0 {
		t.Errorf("ends = (%v, %v), want exactly (0.3, 0)", a, b)
	}
}

func TestTweenFieldsLinearMidpoint(t *testing.T) {
	v := 0.0
	g := TweenFields(nil, 1.0, nil, TweenTarget{Field: &v, To: 10})
	g.Update(0.5)
	if math.Abs(v-5) > 1e-4 {
		t.Errorf("midpoint = %v, want ~5", v)
	}
	if g.Done {
		t.Error("should not be done at the midpoint")
	}
}

func TestTweenFieldsMarksTargetDirty(t *testing.T) {
	node := NewContainer("n")
	node.transformDirty = false
	g := TweenFields(node, 1, ease.Linear, TweenTarget{Field: &node.DisplayX, To: 5})
	g.Update(0.1)
	if !node.transformDirty {
		t.Error("target should be marked dirty")
	}
}

func TestTweenFieldsLimit(t *testing.T) {
	var f [5]float64
	g := TweenFields(nil, 0.1, ease.Linear,
		TweenTarget{Field: &f[0], To: 1},
		TweenTarget{Field: &f[1], To: 1},
		TweenTarget{Field: &f[2], To: 1},
		TweenTarget{Field: &f[3], To: 1},
		TweenTarget{Field: &f[4], To: 1},
	)
	g.Update(1)
	for i := 0; i < 4; i++ {
		if f[i] != 1 {
			t.Errorf("field %d = %v, want 1", i, f[i])
		}
	}
	if f[4] != 0 {
		t.Errorf("fifth field = %v, want untouched", f[4])
	}
}

func TestTweenZeroDurationSnaps(t *testing.T) {
	v := 3.0
	g := TweenFields(nil, 0, ease.Linear, TweenTarget{Field: &v, To: 7})
	g.Update(1.0 / 60)
	if !g.Done || v != 7 {
		t.Errorf("Done=%v v=%v, want snap to 7", g.Done, v)
	}
}

func TestTweenCancelStopsWrites(t *testing.T) {
	v := 0.0
	g := TweenFields(nil, 1, ease.Linear, TweenTarget{Field: &v, To: 10})
	g.Update(0.25)
	mid := v
	g.Cancel()
	g.Update(0.25)
	if v != mid {
		t.Errorf("value changed after Cancel: %v -> %v", mid, v)
	}
	if !g.Done {
		t.Error("cancelled group should report Done")
	}

	var nilGroup *TweenGroup
	nilGroup.Cancel()
}

func TestTweenStopsOnDisposedTarget(t *testing.T) {
	node := NewContainer("n")
	g := TweenFields(node, 1, ease.Linear, TweenTarget{Field: &node.DisplayAlpha, To: 0})
	g.Update(0.25)
	before := node.DisplayAlpha
	node.Dispose()
	g.Update(0.25)
	if node.DisplayAlpha != before {
		t.Errorf("disposed target written: %v -> %v", before, node.DisplayAlpha)
	}
	if !g.Done {
		t.Error("expected Done after target disposal")
	}
}

func TestTweenDisplay(t *testing.T) {
	node := NewCard("n", nil, 10, 10)
	node.DisplayAlpha, node.DisplayX, node.DisplayY, node.DisplayScale = 0, -20, 10, 0.8
	g := TweenDisplay(node, RevealedStyle, 0.2, ease.OutCubic)
	g.Update(0.1)
	g.Update(0.1)
	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done")
	}
	if node.DisplayAlpha != 1 || node.DisplayX != 0 || node.DisplayY != 0 || node.DisplayScale != 1 {
		t.Errorf("display = %v %v %v %v", node.DisplayAlpha, node.DisplayX, node.DisplayY, node.DisplayScale)
	}
}

func TestTimerFiresOnceAfterDelay(t *testing.T) {
	fired := 0
	tm := NewTimer(0.3, func() { fired++ })
	tm.Update(0.1)
	tm.Update(0.1)
	if fired != 0 || !tm.Pending() {
		t.Fatalf("fired early: %d", fired)
	}
	tm.Update(0.1)
	if fired != 1 {
		t.Fatalf("fired = %d after delay, want 1", fired)
	}
	tm.Update(0.1)
	if fired != 1 || tm.Pending() {
		t.Errorf("timer fired again or still pending")
	}
}

func TestTimerZeroDelay(t *testing.T) {
	fired := false
	tm := NewTimer(0, func() { fired = true })
	if fired {
		t.Fatal("timer must not fire before Update")
	}
	tm.Update(0)
	if !fired {
		t.Error("zero delay should fire on the first Update")
	}
}

func TestTimerStop(t *testing.T) {
	fired := false
	tm := NewTimer(0.1, func() { fired = true })
	tm.Stop()
	tm.Update(1)
	if fired {
		t.Error("stopped timer fired")
	}
	if tm.Pending() {
		t.Error("stopped timer should not be pending")
	}

	var nilTimer *Timer
	nilTimer.Update(1)
	nilTimer.Stop()
	if nilTimer.Pending() {
		t.Error("nil timer pending")
	}
}
