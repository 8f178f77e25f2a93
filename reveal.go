package folio

import (
	"strings"

	"github.com/tanema/gween/ease"
)

// Reveal defaults.
const (
	DefaultRevealDuration  = 0.5  // seconds from start style to end style
	DefaultRevealThreshold = 0.1  // visible fraction that triggers a reveal
	DefaultRevealDistance  = 20.0 // slide offset in world units
	DefaultRevealScale     = 0.8  // start scale of VariantScale
)

// Variant selects the entrance motion of a Reveal.
type Variant uint8

const (
	VariantFade       Variant = iota // opacity only
	VariantSlideUp                   // rises into place from below
	VariantSlideDown                 // drops into place from above
	VariantSlideLeft                 // slides in from the left edge
	VariantSlideRight                // slides in from the right edge
	VariantScale                     // grows into place from a smaller size
)

// DefaultVariant is used for unknown variant names and out-of-range values.
const DefaultVariant = VariantFade

var variantNames = [...]string{
	VariantFade:       "fade",
	VariantSlideUp:    "slideUp",
	VariantSlideDown:  "slideDown",
	VariantSlideLeft:  "slideLeft",
	VariantSlideRight: "slideRight",
	VariantScale:      "scale",
}

// String returns the canonical camelCase name of the variant.
func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return variantNames[DefaultVariant]
}

// ParseVariant resolves a variant name. Matching ignores case, dashes and
// underscores, so "slide-up", "slide_up" and "slideUp" are equivalent;
// "slideIn" is an alias of slideLeft. Unknown names return DefaultVariant
// and ok=false.
func ParseVariant(name string) (v Variant, ok bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	switch key {
	case "fade", "fadein":
		return VariantFade, true
	case "slideup":
		return VariantSlideUp, true
	case "slidedown":
		return VariantSlideDown, true
	case "slideleft", "slidein":
		return VariantSlideLeft, true
	case "slideright":
		return VariantSlideRight, true
	case "scale", "zoom":
		return VariantScale, true
	}
	return DefaultVariant, false
}

// RevealStyle is one end of a reveal transition.
type RevealStyle struct {
	Alpha   float64
	OffsetX float64
	OffsetY float64
	Scale   float64
}

// RevealedStyle is the end style shared by every variant: fully opaque, in
// place, at natural size.
var RevealedStyle = RevealStyle{Alpha: 1, Scale: 1}

// Styles returns the start and end style of the variant. distance is the
// slide offset for slide variants.
func (v Variant) Styles(distance float64) (start, end RevealStyle) {
	start = RevealStyle{Alpha: 0, Scale: 1}
	switch v {
	case VariantSlideUp:
		start.OffsetY = distance
	case VariantSlideDown:
		start.OffsetY = -distance
	case VariantSlideLeft:
		start.OffsetX = -distance
	case VariantSlideRight:
		start.OffsetX = distance
	case VariantScale:
		start.Scale = DefaultRevealScale
	}
	return start, RevealedStyle
}

// RevealConfig configures a Reveal. Zero values take the documented defaults.
type RevealConfig struct {
	Variant Variant
	// Delay in seconds between the visibility trigger and the start of the
	// animation. Negative values clamp to 0.
	Delay float64
	// Repeatable replays the animation on every enter and reverts on exit.
	// The default is one-shot.
	Repeatable bool
	// Duration of the transition in seconds. Non-positive means
	// DefaultRevealDuration.
	Duration float32
	// Threshold is the visible fraction that counts as "in view". Zero
	// means DefaultRevealThreshold; negative means any overlap.
	Threshold float64
	// Distance is the slide offset in world units. Non-positive means
	// DefaultRevealDistance.
	Distance float64
	// Ease is the transition curve. Nil means ease.OutCubic.
	Ease ease.TweenFunc
}

func (c RevealConfig) resolve() RevealConfig {
	if int(c.Variant) >= len(variantNames) {
		c.Variant = DefaultVariant
	}
	if c.Delay < 0 {
		c.Delay = 0
	}
	if c.Duration <= 0 {
		c.Duration = DefaultRevealDuration
	}
	switch {
	case c.Threshold == 0:
		c.Threshold = DefaultRevealThreshold
	case c.Threshold < 0:
		c.Threshold = 0
	case c.Threshold > 1:
		c.Threshold = 1
	}
	if c.Distance <= 0 {
		c.Distance = DefaultRevealDistance
	}
	if c.Ease == nil {
		c.Ease = ease.OutCubic
	}
	return c
}

// RevealPhase is the lifecycle position of a Reveal.
type RevealPhase uint8

const (
	RevealPending   RevealPhase = iota // not triggered, start style applied
	RevealDelaying                     // triggered, waiting out the delay
	RevealPlaying                      // animating toward the end style
	RevealShown                        // end style applied
	RevealReverting                    // repeatable only, animating back to start
)

// RevealState is the per-instance trigger state.
type RevealState struct {
	// Triggered is set the first time the node crosses the threshold. In
	// one-shot mode it never resets.
	Triggered bool
	// Visible is the last observed visibility.
	Visible bool
	// Ratio is the last observed visible fraction.
	Ratio float64
}

// Reveal plays an entrance animation on a node when it scrolls into view.
// It drives the node's display overlay (DisplayAlpha, DisplayX, DisplayY,
// DisplayScale) and leaves layout fields untouched.
type Reveal struct {
	scene *Scene
	node  *Node
	cfg   RevealConfig

	start, end RevealStyle

	state RevealState
	phase RevealPhase

	timer *Timer
	tween *TweenGroup

	observer ObserverHandle
	update   updaterHandle
	dispose  ListenerHandle
	closed   bool
}

// NewReveal attaches a reveal controller to node: it applies the variant's
// start style immediately and registers one visibility observer on scene.
// The Reveal is closed automatically when the node is disposed.
func NewReveal(scene *Scene, node *Node, cfg RevealConfig) *Reveal {
	cfg = cfg.resolve()
	r := &Reveal{scene: scene, node: node, cfg: cfg}
	r.start, r.end = cfg.Variant.Styles(cfg.Distance)
	r.apply(r.start)
	r.observer = scene.Observe(node, cfg.Threshold, r.onVisibility)
	r.update = scene.addUpdater(r.step)
	r.dispose = node.OnDispose(r.Close)
	return r
}

// Config returns the resolved configuration.
func (r *Reveal) Config() RevealConfig {
	return r.cfg
}

// State returns the trigger state.
func (r *Reveal) State() RevealState {
	return r.state
}

// Phase returns the lifecycle phase.
func (r *Reveal) Phase() RevealPhase {
	return r.phase
}

// Style returns the display style currently applied to the node.
func (r *Reveal) Style() RevealStyle {
	return RevealStyle{
		Alpha:   r.node.DisplayAlpha,
		OffsetX: r.node.DisplayX,
		OffsetY: r.node.DisplayY,
		Scale:   r.node.DisplayScale,
	}
}

// Closed reports whether Close has run.
func (r *Reveal) Closed() bool {
	return r.closed
}

// Close disconnects the observer and cancels any pending delay or
// transition. The node keeps its current display style. Safe to call more
// than once.
func (r *Reveal) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.observer.Disconnect()
	r.timer.Stop()
	r.timer = nil
	r.tween.Cancel()
	r.tween = nil
	r.update.Remove()
	r.dispose.Remove()
}

func (r *Reveal) onVisibility(e VisibilityEntry) {
	if r.closed {
		return
	}
	r.state.Visible = e.Visible
	r.state.Ratio = e.Ratio

	if e.Visible {
		r.enter()
	} else {
		r.exit()
	}
}

func (r *Reveal) enter() {
	if r.state.Triggered && !r.cfg.Repeatable {
		return
	}
	switch r.phase {
	case RevealDelaying, RevealPlaying, RevealShown:
		return
	}
	r.state.Triggered = true
	r.tween.Cancel()
	r.tween = nil
	r.phase = RevealDelaying
	r.timer = NewTimer(r.cfg.Delay, r.play)
	r.scene.log.Debug().
		Str("node", r.node.Name).
		Str("variant", r.cfg.Variant.String()).
		Float64("delay", r.cfg.Delay).
		Msg("reveal triggered")
}

func (r *Reveal) exit() {
	if !r.cfg.Repeatable {
		// One-shot reveals are sticky: a pending delay still plays out.
		return
	}
	switch r.phase {
	case RevealPending, RevealReverting:
		return
	}
	r.timer.Stop()
	r.timer = nil
	r.tween.Cancel()
	r.state.Triggered = false
	r.phase = RevealReverting
	r.tween = TweenDisplay(r.node, r.start, r.cfg.Duration, r.cfg.Ease)
	r.scene.emitInteractionEvent(InteractionEvent{
		Type:     EventRevealReset,
		EntityID: r.node.EntityID,
		Ratio:    r.state.Ratio,
	})
}

// play starts the transition toward the end style once the delay elapses.
func (r *Reveal) play() {
	if r.closed {
		return
	}
	r.timer = nil
	r.phase = RevealPlaying
	r.tween = TweenDisplay(r.node, r.end, r.cfg.Duration, r.cfg.Ease)
	r.scene.emitInteractionEvent(InteractionEvent{
		Type:     EventRevealTriggered,
		EntityID: r.node.EntityID,
		Ratio:    r.state.Ratio,
	})
}

// step advances the transition, then the delay timer, so a transition that
// starts this frame begins moving on the next one. Registered as a scene
// updater.
func (r *Reveal) step(dt float32) {
	if r.tween != nil {
		r.tween.Update(dt)
		if r.tween.Done {
			r.tween = nil
			switch r.phase {
			case RevealPlaying:
				r.phase = RevealShown
			case RevealReverting:
				r.phase = RevealPending
			}
		}
	}
	r.timer.Update(dt)
}

// apply writes a style to the node's display overlay.
func (r *Reveal) apply(s RevealStyle) {
	r.node.DisplayAlpha = s.Alpha
	r.node.DisplayX = s.OffsetX
	r.node.DisplayY = s.OffsetY
	r.node.DisplayScale = s.Scale
	r.node.MarkDirty()
}
