package folio

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	// Ratio is the visible fraction for reveal events.
	Ratio float64
}

// updater is a per-frame callback owned by a scene-attached component.
type updater struct {
	fn   func(dt float32)
	dead bool
}

// updaterHandle detaches an updater registered with Scene.addUpdater.
type updaterHandle struct {
	u *updater
}

// Remove detaches the updater. Safe on the zero handle.
func (h updaterHandle) Remove() {
	if h.u != nil {
		h.u.dead = true
		h.u.fn = nil
	}
}

// Scene is the top-level object that owns the node tree, cameras, input
// state, visibility observers and the interaction components attached to it.
// A Scene is driven from a single goroutine (the Ebitengine update loop).
type Scene struct {
	root  *Node
	store EntityStore
	debug bool
	log   zerolog.Logger

	// ClearColor fills the screen before the tree is drawn. A zero alpha
	// leaves the screen untouched.
	ClearColor Color
	// WheelStep is the number of world units scrolled per mouse wheel notch.
	WheelStep float64
	// ScreenshotDir is where Screenshot writes images.
	ScreenshotDir string
	// ScreenshotFormat is "png" (default) or "webp".
	ScreenshotFormat string

	cameras []*Camera
	screen  Rect // last laid-out screen rect

	// Input state
	handlers    handlerRegistry
	pointer     pointerState
	hitBuf      []*Node
	chainBuf    []*Node
	injectQueue []syntheticPointerEvent
	synthetic   bool

	// Components
	observers      []*visibilityObserver
	nextObserverID uint32
	updaters       []*updater

	targets renderTexturePool
	stats   *statsOverlay

	updateFunc      func() error
	testRunner      *TestRunner
	screenshotQueue []string
	frame           uint64
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{
		root:          NewContainer("root"),
		log:           zerolog.Nop(),
		WheelStep:     defaultWheelStep,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Update advances the scene by one tick at the current Ebitengine TPS.
func (s *Scene) Update() {
	s.Step(float32(1.0 / float64(ebiten.TPS())))
}

// Step advances the scene by dt seconds: scripted steps, input, transforms,
// cameras, visibility observers, component updaters, then per-node OnUpdate
// hooks.
func (s *Scene) Step(dt float32) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	s.frame++

	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	// Refresh world transforms first so hit testing has accurate positions.
	s.refreshTransforms()
	for _, cam := range s.cameras {
		cam.update(dt)
	}
	s.processInput()
	s.refreshTransforms()
	s.evaluateObservers()
	s.runUpdaters(dt)
	updateNodes(s.root, float64(dt))
	if s.stats != nil {
		s.stats.update(s, float64(dt))
	}

	if s.debug {
		s.debugLog(debugStats{
			updateTime: time.Since(t0),
			nodes:      countNodes(s.root),
			observers:  s.ObserverCount(),
			updaters:   len(s.updaters),
		})
	}
}

// Frame returns the number of Steps run so far.
func (s *Scene) Frame() uint64 {
	return s.frame
}

func (s *Scene) refreshTransforms() {
	updateWorldTransform(s.root, identityTransform, identityTransform, 1.0, false)
}

// addUpdater registers fn to run once per Step.
func (s *Scene) addUpdater(fn func(dt float32)) updaterHandle {
	u := &updater{fn: fn}
	s.updaters = append(s.updaters, u)
	return updaterHandle{u: u}
}

// runUpdaters calls every live updater. Updaters added during the pass run
// from the next frame.
func (s *Scene) runUpdaters(dt float32) {
	count := len(s.updaters)
	for i := 0; i < count; i++ {
		u := s.updaters[i]
		if !u.dead && u.fn != nil {
			u.fn(dt)
		}
	}
	live := s.updaters[:0]
	for _, u := range s.updaters {
		if !u.dead {
			live = append(live, u)
		}
	}
	for i := len(live); i < len(s.updaters); i++ {
		s.updaters[i] = nil
	}
	s.updaters = live
}

// updateNodes runs OnUpdate hooks depth-first.
func updateNodes(n *Node, dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for _, child := range n.children {
		updateNodes(child, dt)
	}
}

// SetUpdateFunc sets a callback run by Run after each scene Update.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// NewCamera creates a camera with the given viewport and adds it to the scene.
// The first camera is the primary camera used for input and observers.
func (s *Scene) NewCamera(viewport Rect) *Camera {
	cam := newCamera(viewport)
	s.cameras = append(s.cameras, cam)
	return cam
}

// RemoveCamera removes a camera from the scene.
func (s *Scene) RemoveCamera(cam *Camera) {
	for i, c := range s.cameras {
		if c == cam {
			s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
			return
		}
	}
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// PrimaryCamera returns the first camera, or nil.
func (s *Scene) PrimaryCamera() *Camera {
	if len(s.cameras) == 0 {
		return nil
	}
	return s.cameras[0]
}

// SetScreenSize records the laid-out screen size. Run calls it from Layout;
// it also serves as the observation viewport when no camera exists.
func (s *Scene) SetScreenSize(w, h int) {
	s.screen = Rect{Width: float64(w), Height: float64(h)}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetLogger sets the structured logger used for debug output and warnings.
func (s *Scene) SetLogger(l zerolog.Logger) {
	s.log = l
}

// Logger returns the scene logger.
func (s *Scene) Logger() zerolog.Logger {
	return s.log
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
