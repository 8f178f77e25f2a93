package folio

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	statsRefresh = 0.5 // seconds between overlay redraws
	statsWidth   = 220
	statsHeight  = 36
)

// statsOverlay shows frame rate and page state in the top-left corner of the
// screen. It draws after every camera and after screenshots are captured, so
// it neither scrolls with the page nor shows up in screenshots.
type statsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
	dirty   bool
}

// SetStatsOverlay shows or hides the FPS and page stats overlay.
func (s *Scene) SetStatsOverlay(on bool) {
	if !on {
		s.stats = nil
		return
	}
	if s.stats == nil {
		// Due on the first Step.
		s.stats = &statsOverlay{elapsed: statsRefresh}
	}
}

func (o *statsOverlay) update(s *Scene, dt float64) {
	o.elapsed += dt
	if o.elapsed < statsRefresh {
		return
	}
	o.elapsed = 0
	o.text = statsText(ebiten.ActualFPS(), ebiten.ActualTPS(), s)
	o.dirty = true
}

// statsText formats one overlay refresh.
func statsText(fps, tps float64, s *Scene) string {
	hovered := "-"
	if n := s.HoveredNode(); n != nil {
		hovered = n.Name
	}
	return fmt.Sprintf("FPS %.1f  TPS %.1f\nobserved %d  hover %s", fps, tps, s.ObserverCount(), hovered)
}

func (o *statsOverlay) draw(screen *ebiten.Image) {
	if o.text == "" {
		return
	}
	if o.img == nil {
		o.img = ebiten.NewImage(statsWidth, statsHeight)
	}
	if o.dirty {
		o.img.Fill(color.RGBA{0, 0, 0, 160})
		ebitenutil.DebugPrint(o.img, o.text)
		o.dirty = false
	}
	screen.DrawImage(o.img, nil)
}
