package showcase

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/phanxgames/folio"
)

// Options configures Build.
type Options struct {
	// Loader resolves card image references. Nil renders every card as a
	// placeholder.
	Loader ImageLoader
	// Logger receives load warnings. The zero value discards them.
	Logger zerolog.Logger
}

// BuiltCard is a card placed on the page with its interaction components.
type BuiltCard struct {
	Card   Card
	Node   *folio.Node
	Tilt   *folio.Tilt
	Reveal *folio.Reveal
}

// Page is the result of Build.
type Page struct {
	Title  string
	Root   *folio.Node
	Cards  []*BuiltCard
	Width  float64
	Height float64
}

// Card returns the first built card with the given title, or nil.
func (p *Page) Card(title string) *BuiltCard {
	for _, c := range p.Cards {
		if c.Card.Title == title {
			return c
		}
	}
	return nil
}

// headingScale is the text scale of the page title.
const headingScale = 2

// Build lays the document out under a new container attached to the scene
// root, attaches tilt and reveal components to each card, sets the scene
// background and clamps the primary camera to the page.
func Build(scene *folio.Scene, doc *Document, opts Options) (*Page, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("build showcase: %w", err)
	}
	bg, _ := ParseColor(doc.Background)
	scene.ClearColor = bg

	page := &Page{Title: doc.Title, Root: folio.NewContainer("page"), Width: doc.Width}
	scene.Root().AddChild(page.Root)

	y := doc.Padding
	if doc.Title != "" {
		title := labelNode("title", doc.Title)
		title.SetScale(headingScale, headingScale)
		title.SetPosition(doc.Padding, y)
		page.Root.AddChild(title)
		y += title.Height*headingScale + doc.Gap
	}

	cols := doc.Columns
	colW := (doc.Width - 2*doc.Padding - float64(cols-1)*doc.Gap) / float64(cols)
	if colW < 1 {
		colW = 1
	}

	for si, sec := range doc.Sections {
		if sec.Heading != "" {
			h := labelNode(fmt.Sprintf("heading-%d", si), sec.Heading)
			h.SetPosition(doc.Padding, y)
			page.Root.AddChild(h)
			y += h.Height + doc.Gap/2
		}

		rowHeight := 0.0
		for ci, card := range sec.Cards {
			col := ci % cols
			if col == 0 && ci > 0 {
				y += rowHeight + doc.Gap
				rowHeight = 0
			}
			w, h := card.Width, card.Height
			if w == 0 {
				w = colW
			}
			if h == 0 {
				h = DefaultCardHeight
			}
			x := doc.Padding + float64(col)*(colW+doc.Gap)

			bc := buildCard(scene, card, w, h, len(page.Cards), opts)
			bc.Node.SetPosition(x, y)
			page.Root.AddChild(bc.Node)
			page.Cards = append(page.Cards, bc)
			rowHeight = math.Max(rowHeight, h)
		}
		if len(sec.Cards) > 0 {
			y += rowHeight + doc.Gap*2
		}
	}
	page.Height = y - doc.Gap*2 + doc.Padding

	if cam := scene.PrimaryCamera(); cam != nil {
		cam.SetBounds(folio.Rect{
			Width:  math.Max(page.Width, cam.Viewport.Width),
			Height: math.Max(page.Height, cam.Viewport.Height),
		})
	}
	opts.Logger.Debug().
		Int("cards", len(page.Cards)).
		Float64("height", page.Height).
		Msg("showcase built")
	return page, nil
}

func buildCard(scene *folio.Scene, card Card, w, h float64, index int, opts Options) *BuiltCard {
	name := card.Title
	if name == "" {
		name = fmt.Sprintf("card-%d", index)
	}
	c, err := ParseColor(card.Color)
	if card.Color == "" || err != nil {
		c, _ = ParseColor(DefaultCardColor)
	}

	src := cardImage(card, int(w), int(h), c, opts)
	node := folio.NewCard(name, ebiten.NewImageFromImage(src), w, h)
	node.EntityID = uint32(index + 1)
	node.UserData = card

	bc := &BuiltCard{Card: card, Node: node}
	if t := card.Tilt; t != nil {
		cfg := folio.TiltConfig{
			NoTilt:       t.NoTilt,
			GlareOpacity: t.Glare,
			Perspective:  t.Perspective,
		}
		if t.Amount != nil {
			cfg.Amount = *t.Amount
			cfg.NoTilt = cfg.NoTilt || *t.Amount == 0
		}
		bc.Tilt = folio.NewTilt(scene, node, cfg)
	}
	if r := card.Reveal; r != nil {
		variant, _ := folio.ParseVariant(r.Animation)
		bc.Reveal = folio.NewReveal(scene, node, folio.RevealConfig{
			Variant:    variant,
			Delay:      r.Delay,
			Repeatable: r.Repeatable,
			Duration:   float32(r.Duration),
			Threshold:  r.Threshold,
		})
	}
	return bc
}

// cardImage loads the card's image, falling back to a titled placeholder
// when there is none or it fails to load.
func cardImage(card Card, w, h int, c folio.Color, opts Options) image.Image {
	if card.Image == "" || opts.Loader == nil {
		return Placeholder(card.Title, w, h, c)
	}
	img, err := opts.Loader.LoadImage(card.Image)
	if err != nil {
		opts.Logger.Warn().Err(err).
			Str("card", card.Title).
			Str("image", card.Image).
			Msg("card image unavailable, using placeholder")
		return Placeholder(card.Title, w, h, c)
	}
	return FitImage(img, w, h)
}

func labelNode(name, text string) *folio.Node {
	img := Label(text)
	b := img.Bounds()
	n := folio.NewRect(name, folio.ColorWhite, float64(b.Dx()), float64(b.Dy()))
	n.Image = ebiten.NewImageFromImage(img)
	return n
}
