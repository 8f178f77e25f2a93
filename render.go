package folio

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// glareTextureSize is the edge length of the generated glare gradient.
// The gradient peaks at its center and falls to zero at half the edge.
const glareTextureSize = 256

var glareTexture *ebiten.Image

// glareImage returns the shared radial gradient used for glare overlays.
// The texture is generated on first use.
func glareImage() *ebiten.Image {
	if glareTexture != nil {
		return glareTexture
	}
	pix := make([]byte, 4*glareTextureSize*glareTextureSize)
	c := float64(glareTextureSize) / 2
	for y := 0; y < glareTextureSize; y++ {
		for x := 0; x < glareTextureSize; x++ {
			a := glareFalloff(math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c)
			v := uint8(a * 255)
			i := 4 * (y*glareTextureSize + x)
			// Premultiplied white.
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	glareTexture = ebiten.NewImage(glareTextureSize, glareTextureSize)
	glareTexture.WritePixels(pix)
	return glareTexture
}

// glareFalloff maps a normalized distance from the glare center to opacity:
// 1 at the center, 0 at distance 1 and beyond, smooth in between.
func glareFalloff(d float64) float64 {
	if d >= 1 {
		return 0
	}
	t := 1 - d
	return t * t * (3 - 2*t)
}

// Draw clears the screen with ClearColor and renders the tree through each
// camera, or with an identity view when the scene has no camera.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	s.refreshTransforms()

	calls := 0
	if len(s.cameras) == 0 {
		calls = s.drawTree(screen, s.root, identityTransform)
	}
	for _, cam := range s.cameras {
		vp := cam.Viewport
		target := screen.SubImage(image.Rect(
			int(vp.X), int(vp.Y),
			int(vp.X+vp.Width), int(vp.Y+vp.Height),
		)).(*ebiten.Image)
		calls += s.drawTree(target, s.root, cam.computeViewMatrix())
	}

	if s.debug {
		s.debugLog(debugStats{drawTime: time.Since(t0), drawCalls: calls})
	}
	s.flushScreenshots(screen)
	if s.stats != nil {
		s.stats.draw(screen)
	}
}

// drawTree draws n and its descendants in painter order. Returns the number
// of draw calls issued.
func (s *Scene) drawTree(target *ebiten.Image, n *Node, view [6]float64) int {
	if !n.Visible {
		return 0
	}
	calls := 0
	if n.Width > 0 && n.Height > 0 && n.worldAlpha > 0 {
		if t := n.tilt; t != nil && !t.Transform().Neutral() {
			// The tilt applies to the whole subtree, not just n's image.
			if len(n.children) > 0 {
				return s.drawTiltedTree(target, n, t, view)
			}
			return drawTilted(target, n, t, view)
		}
		drawFlat(target, n, view)
		calls++
	}
	for _, child := range sortedChildrenOf(n) {
		calls += s.drawTree(target, child, view)
	}
	return calls
}

// nodeSource returns the image a node samples from and its pixel size.
func nodeSource(n *Node) (*ebiten.Image, float64, float64) {
	if n.Image != nil {
		b := n.Image.Bounds()
		return n.Image, float64(b.Dx()), float64(b.Dy())
	}
	return WhitePixel, 1, 1
}

// tint returns the node's premultiplied color scale.
func tint(n *Node) (r, g, b, a float32) {
	alpha := n.Color.A * n.worldAlpha
	return float32(n.Color.R * alpha), float32(n.Color.G * alpha), float32(n.Color.B * alpha), float32(alpha)
}

// drawFlat draws the node as an affine-transformed image.
func drawFlat(target *ebiten.Image, n *Node, view [6]float64) {
	img, iw, ih := nodeSource(n)
	if iw == 0 || ih == 0 {
		return
	}
	m := multiplyAffine(view, n.worldTransform)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(n.Width/iw, n.Height/ih)
	var geo ebiten.GeoM
	geo.SetElement(0, 0, m[0])
	geo.SetElement(1, 0, m[1])
	geo.SetElement(0, 1, m[2])
	geo.SetElement(1, 1, m[3])
	geo.SetElement(0, 2, m[4])
	geo.SetElement(1, 2, m[5])
	op.GeoM.Concat(geo)
	op.ColorScale.Scale(tint(n))
	op.Filter = ebiten.FilterLinear
	target.DrawImage(img, &op)
}

// tiltedQuad returns the screen-space corners of a tilted node.
func tiltedQuad(n *Node, t *Tilt, view [6]float64) [4]Vec2 {
	m := multiplyAffine(view, n.worldTransform)
	cx, cy := transformPoint(m, n.Width/2, n.Height/2)
	// Project in screen pixels so perspective matches the rendered size.
	w, h := n.Width*m[0], n.Height*m[3]
	quad := t.Project(w, h)
	for i := range quad {
		quad[i].X += cx
		quad[i].Y += cy
	}
	return quad
}

var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// drawTilted draws a childless node on its projected quad, then the glare
// layer.
func drawTilted(target *ebiten.Image, n *Node, t *Tilt, view [6]float64) int {
	img, iw, ih := nodeSource(n)
	r, g, b, a := tint(n)
	return drawProjected(target, n, t, view, img, iw, ih, r, g, b, a)
}

// drawProjected maps the iw x ih region of img onto n's projected quad with
// the given vertex color, then draws the glare layer.
func drawProjected(target *ebiten.Image, n *Node, t *Tilt, view [6]float64, img *ebiten.Image, iw, ih float64, r, g, b, a float32) int {
	quad := tiltedQuad(n, t, view)
	src := [4]Vec2{{0, 0}, {iw, 0}, {iw, ih}, {0, ih}}
	verts := make([]ebiten.Vertex, 4)
	for i := range verts {
		verts[i] = ebiten.Vertex{
			DstX: float32(quad[i].X), DstY: float32(quad[i].Y),
			SrcX: float32(src[i].X), SrcY: float32(src[i].Y),
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	op := &ebiten.DrawTrianglesOptions{Filter: ebiten.FilterLinear}
	target.DrawTriangles(verts, quadIndices, img, op)

	tr := t.Transform()
	if tr.GlareAlpha <= 0 {
		return 1
	}
	// Map card corners onto the gradient so its peak sits at the glare point:
	// a card-relative u in [0,1] samples size*(0.5 + (u - glare)/2).
	size := float64(glareTextureSize)
	gx, gy := tr.GlareX/100, tr.GlareY/100
	uv := [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	ga := float32(tr.GlareAlpha * n.worldAlpha)
	for i := range verts {
		verts[i].SrcX = float32(size * (0.5 + (uv[i].X-gx)/2))
		verts[i].SrcY = float32(size * (0.5 + (uv[i].Y-gy)/2))
		verts[i].ColorR, verts[i].ColorG, verts[i].ColorB, verts[i].ColorA = ga, ga, ga, ga
	}
	op.Blend = ebiten.BlendLighter
	target.DrawTriangles(verts, quadIndices, glareImage(), op)
	return 2
}
