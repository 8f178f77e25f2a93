package showcase

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register JPEG for image.Decode
	_ "image/png"  // register PNG for image.Decode
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // register WebP for image.Decode

	"github.com/phanxgames/folio"
)

// ImageLoader resolves a card image reference to a decoded image.
type ImageLoader interface {
	LoadImage(ref string) (image.Image, error)
}

// DirLoader loads card images from files relative to a base directory.
type DirLoader struct {
	Dir string
}

// LoadImage opens and decodes a PNG, JPEG or WebP file.
func (l DirLoader) LoadImage(ref string) (image.Image, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Dir, ref)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// FitImage scales img to exactly w x h with Catmull-Rom filtering. Images
// that already have that size are returned unchanged.
func FitImage(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if w < 1 || h < 1 || (b.Dx() == w && b.Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// labelPadding is the inset of placeholder titles from the card's top-left.
const labelPadding = 12

// Placeholder renders a card-sized image filled with c and the title in the
// top-left corner. It stands in for images that fail to load, and for cards
// without one.
func Placeholder(title string, w, h int, c folio.Color) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toNRGBA(c)}, image.Point{}, draw.Src)
	if title == "" {
		return img
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor(c)),
		Face: face,
		Dot:  fixed.P(labelPadding, labelPadding+face.Ascent),
	}
	d.DrawString(title)
	return img
}

// LabelWidth returns the pixel width of s in the placeholder font.
func LabelWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// Label renders s as white text on a transparent background, sized to fit.
func Label(s string) image.Image {
	face := basicfont.Face7x13
	w := LabelWidth(s)
	if w < 1 {
		w = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, face.Height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)
	return img
}

func toNRGBA(c folio.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: uint8(c.A * 255),
	}
}

// labelColor picks black or white text for contrast against bg.
func labelColor(bg folio.Color) color.Color {
	luma := 0.299*bg.R + 0.587*bg.G + 0.114*bg.B
	if luma > 0.6 {
		return color.Black
	}
	return color.White
}
