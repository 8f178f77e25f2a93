package folio

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS turns on the stats overlay (FPS, TPS, observed nodes and the
	// hovered node).
	ShowFPS bool
	// Resizable lets the user resize the window. The primary camera's
	// viewport follows the window size.
	Resizable bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	cfg   RunConfig
}

func (g *game) Update() error {
	g.scene.Update()
	if g.scene.updateFunc != nil {
		return g.scene.updateFunc()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.cfg.Width, g.cfg.Height
	if g.cfg.Resizable {
		w, h = outsideWidth, outsideHeight
	}
	if cam := g.scene.PrimaryCamera(); cam != nil && (cam.Viewport.Width != float64(w) || cam.Viewport.Height != float64(h)) {
		cam.Viewport = Rect{Width: float64(w), Height: float64(h)}
		if cam.BoundsEnabled {
			cam.clampToBounds()
		}
		cam.MarkDirty()
	}
	g.scene.SetScreenSize(w, h)
	return w, h
}

// Run opens a window and drives the scene with the Ebitengine game loop until
// the window closes or the update func returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("folio: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Title == "" {
		cfg.Title = "folio"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.SetScreenSize(cfg.Width, cfg.Height)
	scene.SetStatsOverlay(cfg.ShowFPS)
	scene.log.Info().Str("title", cfg.Title).Int("width", cfg.Width).Int("height", cfg.Height).Msg("starting game loop")
	if err := ebiten.RunGame(&game{scene: scene, cfg: cfg}); err != nil {
		return fmt.Errorf("folio: run: %w", err)
	}
	return nil
}
