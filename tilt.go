package folio

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Tilt defaults.
const (
	DefaultTiltAmount    = 5.0    // degrees at the card edge
	DefaultPerspective   = 1000.0 // pixels from viewer to the card plane
	DefaultTiltResetTime = 0.4    // seconds for the ease back to neutral
)

// TiltConfig configures a Tilt. Zero values take the documented defaults.
type TiltConfig struct {
	// Amount is the maximum rotation in degrees on either axis, reached
	// when the pointer is on the card edge. Negative values clamp to 0;
	// zero means DefaultTiltAmount. Use NoTilt for a glare-only card.
	Amount float64
	// NoTilt disables rotation while keeping the glare layer.
	NoTilt bool
	// GlareOpacity is the peak opacity of the glare overlay, clamped to
	// [0, 1]. Zero omits the glare layer.
	GlareOpacity float64
	// Perspective is the viewer distance in pixels. Non-positive values
	// mean DefaultPerspective.
	Perspective float64
	// ResetDuration is the ease-back time in seconds after pointer leave.
	// Non-positive values mean DefaultTiltResetTime.
	ResetDuration float32
	// Ease is the reset curve. Nil means ease.OutCubic.
	Ease ease.TweenFunc
}

// resolve returns a copy with defaults and clamps applied.
func (c TiltConfig) resolve() TiltConfig {
	switch {
	case c.NoTilt:
		c.Amount = 0
	case c.Amount < 0:
		c.Amount = 0
	case c.Amount == 0:
		c.Amount = DefaultTiltAmount
	}
	c.GlareOpacity = clamp(c.GlareOpacity, 0, 1)
	if c.Perspective <= 0 {
		c.Perspective = DefaultPerspective
	}
	if c.ResetDuration <= 0 {
		c.ResetDuration = DefaultTiltResetTime
	}
	if c.Ease == nil {
		c.Ease = ease.OutCubic
	}
	return c
}

// TiltState is the per-instance pointer state of a Tilt.
type TiltState struct {
	// Offset is the pointer position relative to the card center, scaled by
	// width and height; both components lie in [-0.5, 0.5]. Only valid when
	// HasOffset is true.
	Offset    Vec2
	HasOffset bool
	// Active is true while the pointer is over the card.
	Active bool
}

// TiltTransform is the presentation output of a Tilt for one frame.
type TiltTransform struct {
	RotateX     float64 // degrees, positive tilts the top edge away
	RotateY     float64 // degrees, positive tilts the right edge away
	Perspective float64
	GlareX      float64 // glare center, percent of card width [0, 100]
	GlareY      float64 // glare center, percent of card height [0, 100]
	GlareAlpha  float64 // current glare opacity
}

// Neutral reports whether the transform has no rotation and no glare.
func (t TiltTransform) Neutral() bool {
	return t.RotateX == 0 && t.RotateY == 0 && t.GlareAlpha == 0
}

// Tilt rotates a card toward the pointer and renders a glare overlay. It
// listens on its own node only. On pointer leave the rotation and glare ease
// back to zero; a new enter cancels the ease and tracks the pointer again.
type Tilt struct {
	scene *Scene
	node  *Node
	cfg   TiltConfig

	state TiltState

	rotX, rotY float64
	glareX     float64
	glareY     float64
	glareAlpha float64

	reset *TweenGroup

	listeners []ListenerHandle
	update    updaterHandle
	dispose   ListenerHandle
	closed    bool
}

// NewTilt attaches a tilt interaction to node. The node is made interactable.
// The Tilt is closed automatically when the node is disposed. Attaching a
// second Tilt to the same node closes the first.
func NewTilt(scene *Scene, node *Node, cfg TiltConfig) *Tilt {
	if node.tilt != nil {
		node.tilt.Close()
	}
	t := &Tilt{
		scene:  scene,
		node:   node,
		cfg:    cfg.resolve(),
		glareX: 50,
		glareY: 50,
	}
	node.Interactable = true
	node.tilt = t
	t.listeners = []ListenerHandle{
		node.AddListener(EventPointerEnter, t.onEnter),
		node.AddListener(EventPointerMove, t.onMove),
		node.AddListener(EventPointerLeave, t.onLeave),
	}
	t.update = scene.addUpdater(t.step)
	t.dispose = node.OnDispose(t.Close)
	return t
}

// Config returns the resolved configuration.
func (t *Tilt) Config() TiltConfig {
	return t.cfg
}

// State returns the current pointer state.
func (t *Tilt) State() TiltState {
	return t.state
}

// Resetting reports whether the ease back to neutral is in progress.
func (t *Tilt) Resetting() bool {
	return t.reset != nil && !t.reset.Done
}

// Closed reports whether Close has run.
func (t *Tilt) Closed() bool {
	return t.closed
}

// Transform returns the current rotation and glare.
func (t *Tilt) Transform() TiltTransform {
	return TiltTransform{
		RotateX:     t.rotX,
		RotateY:     t.rotY,
		Perspective: t.cfg.Perspective,
		GlareX:      t.glareX,
		GlareY:      t.glareY,
		GlareAlpha:  t.glareAlpha,
	}
}

// Close releases the node listeners, cancels any in-flight reset and
// detaches from the scene. Safe to call more than once.
func (t *Tilt) Close() {
	if t.closed {
		return
	}
	t.closed = true
	for _, h := range t.listeners {
		h.Remove()
	}
	t.listeners = nil
	t.reset.Cancel()
	t.reset = nil
	t.update.Remove()
	t.dispose.Remove()
	if t.node.tilt == t {
		t.node.tilt = nil
	}
	t.state = TiltState{}
}

func (t *Tilt) onEnter(ctx PointerContext) {
	if t.closed {
		return
	}
	t.state.Active = true
	t.reset.Cancel()
	t.reset = nil
	t.sample(ctx.GlobalX, ctx.GlobalY)
}

func (t *Tilt) onMove(ctx PointerContext) {
	if t.closed || !t.state.Active {
		return
	}
	t.sample(ctx.GlobalX, ctx.GlobalY)
}

func (t *Tilt) onLeave(PointerContext) {
	if t.closed {
		return
	}
	t.state.Active = false
	t.state.HasOffset = false
	t.reset.Cancel()
	t.reset = TweenFields(t.node, t.cfg.ResetDuration, t.cfg.Ease,
		TweenTarget{Field: &t.rotX, To: 0},
		TweenTarget{Field: &t.rotY, To: 0},
		TweenTarget{Field: &t.glareAlpha, To: 0},
	)
}

// sample applies the latest pointer position. The result depends only on
// this sample, never on earlier ones.
func (t *Tilt) sample(wx, wy float64) {
	offset, ok := PointerOffset(wx, wy, t.node.WorldBounds())
	if !ok {
		return
	}
	t.state.Offset = offset
	t.state.HasOffset = true
	t.rotX, t.rotY = TiltRotation(offset, t.cfg.Amount)
	glare := GlarePosition(offset)
	t.glareX, t.glareY = glare.X, glare.Y
	t.glareAlpha = t.cfg.GlareOpacity
}

// step advances the reset ease. Registered as a scene updater.
func (t *Tilt) step(dt float32) {
	if t.reset == nil {
		return
	}
	t.reset.Update(dt)
	if t.reset.Done {
		t.rotX, t.rotY, t.glareAlpha = 0, 0, 0
		t.reset = nil
		t.scene.emitInteractionEvent(InteractionEvent{
			Type:     EventTiltSettled,
			EntityID: t.node.EntityID,
		})
	}
}

// Project returns the four corners (top-left, top-right, bottom-right,
// bottom-left) of a w x h card after the current rotation and perspective,
// relative to the card center.
func (t *Tilt) Project(w, h float64) [4]Vec2 {
	return ProjectQuad(w, h, t.rotX, t.rotY, t.cfg.Perspective)
}

// PointerOffset returns the pointer position relative to the center of
// bounds, normalized by width and height and clamped to [-0.5, 0.5] on each
// axis. ok is false for bounds with no area, which callers treat as no tilt.
func PointerOffset(px, py float64, bounds Rect) (offset Vec2, ok bool) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return Vec2{}, false
	}
	c := bounds.Center()
	return Vec2{
		X: clamp((px-c.X)/bounds.Width, -0.5, 0.5),
		Y: clamp((py-c.Y)/bounds.Height, -0.5, 0.5),
	}, true
}

// TiltRotation maps a pointer offset to rotations in degrees. The offset is
// clamped first, so neither axis exceeds amount. A pointer above center
// tilts the top edge away (positive RotateX); a pointer right of center
// tilts the right edge away (positive RotateY).
func TiltRotation(offset Vec2, amount float64) (rotateX, rotateY float64) {
	ox := clamp(offset.X, -0.5, 0.5)
	oy := clamp(offset.Y, -0.5, 0.5)
	rotateX = -2 * oy * amount
	rotateY = 2 * ox * amount
	// Avoid negative zero in the neutral state.
	if rotateX == 0 {
		rotateX = 0
	}
	if rotateY == 0 {
		rotateY = 0
	}
	return rotateX, rotateY
}

// GlarePosition maps a pointer offset to a glare center in percent of the
// card size, (50, 50) being the center.
func GlarePosition(offset Vec2) Vec2 {
	return Vec2{
		X: (clamp(offset.X, -0.5, 0.5) + 0.5) * 100,
		Y: (clamp(offset.Y, -0.5, 0.5) + 0.5) * 100,
	}
}

// ProjectQuad rotates a w x h rectangle centered on the origin by rotateY
// then rotateX (degrees) and projects it with the given perspective
// distance. Points closer to the viewer (positive z) grow.
func ProjectQuad(w, h, rotateX, rotateY, perspective float64) [4]Vec2 {
	hw, hh := w/2, h/2
	corners := [4]Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	if rotateX == 0 && rotateY == 0 {
		return corners
	}
	sinX, cosX := math.Sincos(rotateX * math.Pi / 180)
	sinY, cosY := math.Sincos(rotateY * math.Pi / 180)
	for i, p := range corners {
		// rotateY
		x := p.X * cosY
		z := -p.X * sinY
		// rotateX
		y := p.Y*cosX - z*sinX
		z = p.Y*sinX + z*cosX
		scale := 1.0
		if perspective > 0 && perspective-z > 1e-6 {
			scale = perspective / (perspective - z)
		}
		corners[i] = Vec2{X: x * scale, Y: y * scale}
	}
	return corners
}
