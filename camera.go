package folio

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// pageScroll is an in-flight ScrollTo. A single 0..1 progress tween drives
// both axes so they arrive together.
type pageScroll struct {
	from, to Vec2
	progress *gween.Tween
}

// Camera is the page camera: it controls which part of the showcase is
// visible, and its visible bounds drive viewport observation.
type Camera struct {
	// X and Y are the world-space point shown at the viewport center.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	// BoundsEnabled keeps scrolling inside Bounds.
	BoundsEnabled bool
	// Bounds is the page rectangle in world space. With BoundsEnabled the
	// camera never shows anything above the page top or below its bottom.
	Bounds Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scroll *pageScroll
}

// newCamera returns a camera for viewport. It starts at the top of the page
// with world and screen coordinates coinciding.
func newCamera(viewport Rect) *Camera {
	return &Camera{
		X:        viewport.X + viewport.Width/2,
		Y:        viewport.Y + viewport.Height/2,
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// ScrollTo animates the viewport center to (x, y) over duration seconds.
// The target is clamped to the page when bounds are enabled. A non-positive
// duration jumps there immediately.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		to := c.clampPoint(x, y)
		c.scroll = nil
		c.X, c.Y = to.X, to.Y
		c.dirty = true
		return
	}
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	c.scroll = &pageScroll{
		from:     Vec2{X: c.X, Y: c.Y},
		to:       c.clampPoint(x, y),
		progress: gween.New(0, 1, duration, easeFn),
	}
}

// ScrollToNode animates the camera so n's layout bounds are centered in the
// viewport, as far as the page bounds allow.
func (c *Camera) ScrollToNode(n *Node, duration float32, easeFn ease.TweenFunc) {
	center := n.LayoutBounds().Center()
	c.ScrollTo(center.X, center.Y, duration, easeFn)
}

// ScrollBy moves the camera immediately by (dx, dy) world units. It cancels
// any ScrollTo and stops at the page edges.
func (c *Camera) ScrollBy(dx, dy float64) {
	c.scroll = nil
	c.X += dx
	c.Y += dy
	if c.BoundsEnabled {
		c.clampToBounds()
	}
	c.dirty = true
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// ScrollTop returns the world Y of the top edge of the viewport.
func (c *Camera) ScrollTop() float64 {
	return c.VisibleBounds().Y
}

// SetBounds sets the page rectangle and moves the camera inside it at once.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
	c.clampToBounds()
	c.dirty = true
}

// ClearBounds lets the camera scroll past the page edges.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// update advances a ScrollTo. Called once per Scene.Step before input.
func (c *Camera) update(dt float32) {
	prevX, prevY, prevZoom := c.X, c.Y, c.Zoom

	if sc := c.scroll; sc != nil {
		p, done := sc.progress.Update(dt)
		if done {
			c.X, c.Y = sc.to.X, sc.to.Y
			c.scroll = nil
		} else {
			t := float64(p)
			c.X = sc.from.X + (sc.to.X-sc.from.X)*t
			c.Y = sc.from.Y + (sc.to.Y-sc.from.Y)*t
		}
	}
	if c.BoundsEnabled {
		c.clampToBounds()
	}
	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom {
		c.dirty = true
	}
}

// clampToBounds pulls the camera back so the viewport stays on the page.
func (c *Camera) clampToBounds() {
	c.X, c.Y = c.boundedCenter(c.X, c.Y)
}

// clampPoint is boundedCenter when bounds are enabled, else the point as is.
func (c *Camera) clampPoint(x, y float64) Vec2 {
	if c.BoundsEnabled {
		x, y = c.boundedCenter(x, y)
	}
	return Vec2{X: x, Y: y}
}

// boundedCenter returns the closest viewport center to (x, y) that keeps the
// visible area inside Bounds. A page smaller than the viewport on an axis is
// centered on that axis.
func (c *Camera) boundedCenter(x, y float64) (float64, float64) {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)
	return clampAxis(x, c.Bounds.X, c.Bounds.Width, halfW),
		clampAxis(y, c.Bounds.Y, c.Bounds.Height, halfH)
}

func clampAxis(v, start, length, half float64) float64 {
	lo, hi := start+half, start+length-half
	if lo > hi {
		return start + length/2
	}
	return math.Max(lo, math.Min(v, hi))
}

// computeViewMatrix recomputes the cached view matrix if dirty: the camera
// point maps to the viewport center, scaled by Zoom.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom
	c.viewMatrix = [6]float64{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts page coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.computeViewMatrix()
	return transformPoint(c.viewMatrix, wx, wy)
}

// ScreenToWorld converts screen coordinates to page coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.invViewMatrix, sx, sy)
}

// VisibleBounds returns the part of the page currently on screen. Scene
// observers measure each node's visible ratio against this rectangle.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	x0, y0 := transformPoint(c.invViewMatrix, c.Viewport.X, c.Viewport.Y)
	x1, y1 := transformPoint(c.invViewMatrix, c.Viewport.X+c.Viewport.Width, c.Viewport.Y+c.Viewport.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
