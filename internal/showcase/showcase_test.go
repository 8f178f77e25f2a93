package showcase

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phanxgames/folio"
)

const sampleDoc = `
title: Portfolio
width: 800
columns: 2
gap: 20
padding: 40
sections:
  - heading: Projects
    cards:
      - title: Alpha
        color: "#336699"
        tilt: {amount: 10, glare: 0.4}
        reveal: {animation: slide-up, delay: 0.2}
      - title: Beta
        height: 120
        reveal: {animation: scale, repeatable: true}
      - title: Gamma
        image: missing.png
        tilt: {noTilt: true, glare: 0.3}
  - heading: About
    cards:
      - title: Delta
`

func ptr[T any](v T) *T { return &v }

type failingLoader struct{}

func (failingLoader) LoadImage(ref string) (image.Image, error) {
	return nil, errors.New("no such image: " + ref)
}

func TestParseAppliesDefaults(t *testing.T) {
	doc, err := Parse([]byte("sections:\n  - cards:\n      - title: Only\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPageWidth, doc.Width)
	assert.Equal(t, DefaultColumns, doc.Columns)
	assert.Equal(t, DefaultGap, doc.Gap)
	assert.Equal(t, DefaultPadding, doc.Padding)
	assert.Equal(t, DefaultBackground, doc.Background)
	assert.Equal(t, 1, doc.CardCount())
}

func TestParseSample(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Portfolio", doc.Title)
	assert.Equal(t, 4, doc.CardCount())

	alpha := doc.Sections[0].Cards[0]
	require.NotNil(t, alpha.Tilt)
	require.NotNil(t, alpha.Reveal)
	require.NotNil(t, alpha.Tilt.Amount)
	assert.Equal(t, 10.0, *alpha.Tilt.Amount)
	assert.Equal(t, "slide-up", alpha.Reveal.Animation)
	assert.Equal(t, 0.2, alpha.Reveal.Delay)
	assert.Nil(t, doc.Sections[1].Cards[0].Tilt)
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("sections: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse showcase")
}

func TestValidateAggregatesErrors(t *testing.T) {
	doc := &Document{
		Width:      -5,
		Columns:    0,
		Background: "nope",
		Sections: []Section{{Cards: []Card{{
			Title:  "bad",
			Color:  "#12",
			Tilt:   &TiltOptions{Amount: ptr(-1.0), Glare: 2},
			Reveal: &RevealOptions{Animation: "spin", Delay: -1},
		}}}},
	}
	err := doc.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"width must be positive",
		"columns must be at least 1",
		"background",
		"color",
		"tilt amount",
		"tilt glare",
		`unknown reveal animation "spin"`,
		"reveal delay",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidateRequiresCards(t *testing.T) {
	doc := &Document{Width: 100, Columns: 1, Background: "#000"}
	assert.ErrorContains(t, doc.Validate(), "no cards")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.CardCount())

	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want folio.Color
	}{
		{"#ffffff", folio.Color{R: 1, G: 1, B: 1, A: 1}},
		{"000000", folio.Color{A: 1}},
		{"#f00", folio.Color{R: 1, A: 1}},
		{"#00ff0080", folio.Color{G: 1, A: 128.0 / 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want.R, got.R, 1e-9, tt.in)
		assert.InDelta(t, tt.want.G, got.G, 1e-9, tt.in)
		assert.InDelta(t, tt.want.B, got.B, 1e-9, tt.in)
		assert.InDelta(t, tt.want.A, got.A, 1e-9, tt.in)
	}

	for _, bad := range []string{"", "#12", "#zzzzzz", "#1234567"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestPlaceholderFillsCard(t *testing.T) {
	img := Placeholder("Hello", 120, 80, folio.Color{R: 1, A: 1})
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())

	// Bottom-right corner is clear of the label.
	r, g, b, a := img.At(119, 79).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
	assert.Equal(t, uint32(0xffff), a)

	// Some label pixel differs from the fill.
	found := false
	bg := color.RGBA{R: 255, A: 255}
	for y := 0; y < 30 && !found; y++ {
		for x := 0; x < 60 && !found; x++ {
			if img.At(x, y) != bg {
				found = true
			}
		}
	}
	assert.True(t, found, "placeholder label not drawn")
}

func TestLabelSize(t *testing.T) {
	img := Label("abc")
	assert.Equal(t, LabelWidth("abc"), img.Bounds().Dx())
	assert.Equal(t, 21, LabelWidth("abc")) // 7px advance
}

func TestBuildLayout(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	scene := folio.NewScene()
	cam := scene.NewCamera(folio.Rect{Width: 800, Height: 600})

	page, err := Build(scene, doc, Options{})
	require.NoError(t, err)
	require.Len(t, page.Cards, 4)

	colW := (800.0 - 2*40 - 20) / 2
	alpha, beta, gamma, delta := page.Cards[0], page.Cards[1], page.Cards[2], page.Cards[3]

	assert.Equal(t, 40.0, alpha.Node.X)
	assert.Equal(t, 40.0+colW+20, beta.Node.X)
	assert.Equal(t, alpha.Node.Y, beta.Node.Y)
	assert.Equal(t, colW, alpha.Node.Width)
	assert.Equal(t, DefaultCardHeight, alpha.Node.Height)
	assert.Equal(t, 120.0, beta.Node.Height)

	// Third card wraps to the next row below the tallest card of the first.
	assert.Equal(t, 40.0, gamma.Node.X)
	assert.Equal(t, alpha.Node.Y+DefaultCardHeight+20, gamma.Node.Y)
	assert.Greater(t, delta.Node.Y, gamma.Node.Y+DefaultCardHeight)
	assert.Greater(t, page.Height, delta.Node.Y+DefaultCardHeight)

	// Components.
	require.NotNil(t, alpha.Tilt)
	assert.Equal(t, 10.0, alpha.Tilt.Config().Amount)
	assert.Equal(t, 0.4, alpha.Tilt.Config().GlareOpacity)
	require.NotNil(t, alpha.Reveal)
	assert.Equal(t, folio.VariantSlideUp, alpha.Reveal.Config().Variant)
	assert.Nil(t, beta.Tilt)
	assert.True(t, beta.Reveal.Config().Repeatable)
	assert.Equal(t, folio.VariantScale, beta.Reveal.Config().Variant)
	assert.Equal(t, 0.0, gamma.Tilt.Config().Amount)
	assert.Nil(t, delta.Tilt)
	assert.Nil(t, delta.Reveal)

	// Reveal start styles are applied before the first frame.
	assert.Equal(t, 0.0, alpha.Node.DisplayAlpha)
	assert.Equal(t, folio.DefaultRevealDistance, alpha.Node.DisplayY)
	assert.Equal(t, 1.0, delta.Node.DisplayAlpha)

	// Camera clamps to the page.
	assert.True(t, cam.BoundsEnabled)
	assert.Equal(t, page.Height, cam.Bounds.Height)
	assert.Same(t, alpha, page.Card("Alpha"))
	assert.Nil(t, page.Card("Omega"))

	// Entity IDs are assigned in page order.
	assert.Equal(t, uint32(1), alpha.Node.EntityID)
	assert.Equal(t, uint32(4), delta.Node.EntityID)
}

func TestBuildFallsBackToPlaceholder(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	var buf bytes.Buffer
	scene := folio.NewScene()
	page, err := Build(scene, doc, Options{
		Loader: failingLoader{},
		Logger: zerolog.New(&buf),
	})
	require.NoError(t, err)

	gamma := page.Card("Gamma")
	require.NotNil(t, gamma)
	require.NotNil(t, gamma.Node.Image)
	assert.Equal(t, int(gamma.Node.Width), gamma.Node.Image.Bounds().Dx())

	out := buf.String()
	assert.Contains(t, out, "using placeholder")
	assert.Contains(t, out, "missing.png")
}

func TestBuildRevealsVisibleCards(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	scene := folio.NewScene()
	scene.NewCamera(folio.Rect{Width: 800, Height: 600})
	page, err := Build(scene, doc, Options{})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		scene.Step(0.1)
	}
	alpha := page.Card("Alpha")
	assert.Equal(t, folio.RevealShown, alpha.Reveal.Phase())
	assert.Equal(t, folio.RevealedStyle, alpha.Reveal.Style())
}

func TestBuildRejectsInvalidDocument(t *testing.T) {
	_, err := Build(folio.NewScene(), &Document{}, Options{})
	assert.ErrorContains(t, err, "build showcase")
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	_, err := DirLoader{Dir: dir}.LoadImage("absent.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0o644))
	_, err = DirLoader{Dir: dir}.LoadImage("junk.png")
	assert.ErrorContains(t, err, "decode image")
}

func TestFitImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 255, 255
	}

	same := FitImage(src, 40, 20)
	assert.Same(t, src, same.(*image.RGBA))

	scaled := FitImage(src, 10, 5)
	require.Equal(t, image.Rect(0, 0, 10, 5), scaled.Bounds())
	r, g, b, a := scaled.At(5, 2).RGBA()
	assert.InDelta(t, 0xffff, float64(r), 0x200)
	assert.InDelta(t, 0, float64(g), 0x200)
	assert.InDelta(t, 0, float64(b), 0x200)
	assert.InDelta(t, 0xffff, float64(a), 0x200)

	assert.Equal(t, src, FitImage(src, 0, 5), "degenerate sizes leave the image alone")
}

func TestBuildTiltAmount(t *testing.T) {
	doc, err := Parse([]byte(`
sections:
  - cards:
      - title: Default
        tilt: {glare: 0.2}
      - title: Flat
        tilt: {amount: 0, glare: 0.2}
      - title: Steep
        tilt: {amount: 15}
`))
	require.NoError(t, err)
	page, err := Build(folio.NewScene(), doc, Options{})
	require.NoError(t, err)

	def := page.Card("Default").Tilt.Config()
	assert.Equal(t, folio.DefaultTiltAmount, def.Amount)
	assert.False(t, def.NoTilt)

	flat := page.Card("Flat").Tilt.Config()
	assert.True(t, flat.NoTilt)
	assert.Equal(t, 0.0, flat.Amount)
	assert.Equal(t, 0.2, flat.GlareOpacity)

	assert.Equal(t, 15.0, page.Card("Steep").Tilt.Config().Amount)
}
