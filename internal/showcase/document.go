// Package showcase loads showcase page documents and builds them into a
// folio scene: a column of sections, each a grid of cards with tilt and
// reveal behavior.
package showcase

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/phanxgames/folio"
)

// Layout defaults.
const (
	DefaultPageWidth  = 960.0
	DefaultColumns    = 3
	DefaultGap        = 24.0
	DefaultPadding    = 48.0
	DefaultCardHeight = 180.0
	DefaultBackground = "#101018"
	DefaultCardColor  = "#2a2f45"
)

// Document is a showcase page.
type Document struct {
	Title      string    `yaml:"title"`
	Width      float64   `yaml:"width"`
	Background string    `yaml:"background"`
	Columns    int       `yaml:"columns"`
	Gap        float64   `yaml:"gap"`
	Padding    float64   `yaml:"padding"`
	Sections   []Section `yaml:"sections"`
}

// Section is a headed group of cards laid out as a grid.
type Section struct {
	Heading string `yaml:"heading"`
	Cards   []Card `yaml:"cards"`
}

// Card is one tile on the page.
type Card struct {
	Title  string         `yaml:"title"`
	Image  string         `yaml:"image"`
	Color  string         `yaml:"color"`
	Width  float64        `yaml:"width"`
	Height float64        `yaml:"height"`
	Tilt   *TiltOptions   `yaml:"tilt"`
	Reveal *RevealOptions `yaml:"reveal"`
}

// TiltOptions configures a card's tilt. A nil value leaves the card flat.
type TiltOptions struct {
	// Amount is the edge rotation in degrees. Omitted means
	// folio.DefaultTiltAmount; an explicit 0 keeps the card flat.
	Amount      *float64 `yaml:"amount"`
	Glare       float64  `yaml:"glare"`
	Perspective float64  `yaml:"perspective"`
	// NoTilt keeps the glare and disables rotation.
	NoTilt bool `yaml:"noTilt"`
}

// RevealOptions configures a card's entrance animation. A nil value shows the
// card immediately.
type RevealOptions struct {
	Animation  string  `yaml:"animation"`
	Delay      float64 `yaml:"delay"`
	Repeatable bool    `yaml:"repeatable"`
	Duration   float64 `yaml:"duration"`
	Threshold  float64 `yaml:"threshold"`
}

// Load reads and parses a showcase document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read showcase %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a YAML showcase document, applies defaults and validates it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse showcase: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) applyDefaults() {
	if d.Width == 0 {
		d.Width = DefaultPageWidth
	}
	if d.Columns == 0 {
		d.Columns = DefaultColumns
	}
	if d.Gap == 0 {
		d.Gap = DefaultGap
	}
	if d.Padding == 0 {
		d.Padding = DefaultPadding
	}
	if d.Background == "" {
		d.Background = DefaultBackground
	}
}

// Validate reports every problem in the document at once.
func (d *Document) Validate() error {
	var errs []error
	if d.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %v", d.Width))
	}
	if d.Columns < 1 {
		errs = append(errs, fmt.Errorf("columns must be at least 1, got %d", d.Columns))
	}
	if d.Gap < 0 {
		errs = append(errs, fmt.Errorf("gap must not be negative, got %v", d.Gap))
	}
	if d.Padding < 0 {
		errs = append(errs, fmt.Errorf("padding must not be negative, got %v", d.Padding))
	}
	if _, err := ParseColor(d.Background); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}
	if d.CardCount() == 0 {
		errs = append(errs, errors.New("no cards"))
	}
	for si, sec := range d.Sections {
		for ci, c := range sec.Cards {
			if err := c.validate(); err != nil {
				errs = append(errs, fmt.Errorf("sections[%d].cards[%d] %q: %w", si, ci, c.Title, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (c Card) validate() error {
	var errs []error
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("size must not be negative, got %vx%v", c.Width, c.Height))
	}
	if c.Color != "" {
		if _, err := ParseColor(c.Color); err != nil {
			errs = append(errs, fmt.Errorf("color: %w", err))
		}
	}
	if t := c.Tilt; t != nil {
		if t.Amount != nil && *t.Amount < 0 {
			errs = append(errs, fmt.Errorf("tilt amount must not be negative, got %v", *t.Amount))
		}
		if t.Glare < 0 || t.Glare > 1 {
			errs = append(errs, fmt.Errorf("tilt glare must be within [0, 1], got %v", t.Glare))
		}
	}
	if r := c.Reveal; r != nil {
		if r.Animation != "" {
			if _, ok := folio.ParseVariant(r.Animation); !ok {
				errs = append(errs, fmt.Errorf("unknown reveal animation %q", r.Animation))
			}
		}
		if r.Delay < 0 {
			errs = append(errs, fmt.Errorf("reveal delay must not be negative, got %v", r.Delay))
		}
		if r.Threshold < 0 || r.Threshold > 1 {
			errs = append(errs, fmt.Errorf("reveal threshold must be within [0, 1], got %v", r.Threshold))
		}
	}
	return errors.Join(errs...)
}

// CardCount returns the number of cards across all sections.
func (d *Document) CardCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Cards)
	}
	return n
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading '#' is
// optional).
func ParseColor(s string) (folio.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return folio.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return folio.Color{}, fmt.Errorf("invalid color %q", s)
	}
	return folio.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
