package folio

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// renderTexturePool manages reusable offscreen images keyed by power-of-two
// dimensions. Tilted cards with children render their subtree into one of
// these before it is projected.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool. It is cleared on the next Acquire.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// offscreenView returns view shifted so that n's local origin lands on the
// offscreen origin. On-screen scale is kept, so the subtree renders at the
// pixel density it would have on screen.
func offscreenView(view [6]float64, n *Node) [6]float64 {
	ox, oy := transformPoint(multiplyAffine(view, n.worldTransform), 0, 0)
	view[4] -= ox
	view[5] -= oy
	return view
}

// drawTiltedTree renders a tilted node and its descendants into an offscreen
// image, draws that image through the projected quad and adds the glare on
// top. Descendants outside the node's bounds are clipped.
func (s *Scene) drawTiltedTree(target *ebiten.Image, n *Node, t *Tilt, view [6]float64) int {
	m := multiplyAffine(view, n.worldTransform)
	w, h := n.Width*m[0], n.Height*m[3]
	pw, ph := int(math.Ceil(w)), int(math.Ceil(h))
	if pw < 1 || ph < 1 {
		return 0
	}
	off := s.targets.Acquire(pw, ph)
	defer s.targets.Release(off)

	ov := offscreenView(view, n)
	drawFlat(off, n, ov)
	calls := 1
	for _, child := range sortedChildrenOf(n) {
		calls += s.drawTree(off, child, ov)
	}
	// Offscreen content is already tinted and premultiplied.
	return calls + drawProjected(target, n, t, view, off, w, h, 1, 1, 1, 1)
}
