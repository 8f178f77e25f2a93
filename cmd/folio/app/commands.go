package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/folio"
	"github.com/phanxgames/folio/internal/showcase"
)

// showcasePath returns the showcase file named by args, or the configured one.
func (a *App) showcasePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.config.Showcase
}

// buildScene loads the showcase at path and builds it into a new scene with
// a page camera sized to the window.
func (a *App) buildScene(path string) (*folio.Scene, *showcase.Page, error) {
	doc, err := showcase.Load(path)
	if err != nil {
		return nil, nil, err
	}

	scene := folio.NewScene()
	scene.SetLogger(a.logger)
	scene.SetDebugMode(a.config.Debug)
	scene.ScreenshotDir = a.config.ScreenshotDir
	scene.ScreenshotFormat = a.config.ScreenshotFormat
	scene.NewCamera(folio.Rect{Width: float64(a.config.Width), Height: float64(a.config.Height)})

	assets := a.config.AssetsDir
	if assets == "" {
		assets = filepath.Dir(path)
	}
	page, err := showcase.Build(scene, doc, showcase.Options{
		Loader: showcase.DirLoader{Dir: assets},
		Logger: a.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info().
		Str("showcase", path).
		Int("cards", len(page.Cards)).
		Msg("showcase loaded")
	return scene, page, nil
}

func (a *App) runConfig(title string) folio.RunConfig {
	if title == "" {
		title = a.config.Title
	}
	return folio.RunConfig{
		Title:     title,
		Width:     a.config.Width,
		Height:    a.config.Height,
		ShowFPS:   a.config.ShowFPS,
		Resizable: a.config.Resizable,
	}
}

func (a *App) newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [showcase.yaml]",
		Short: "Open a window showing the showcase page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.showcasePath(args)
			scene, page, err := a.buildScene(path)
			if err != nil {
				return err
			}
			return folio.Run(scene, a.runConfig(page.Title))
		},
	}
}

func (a *App) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [showcase.yaml...]",
		Short: "Check showcase files for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.config.Showcase}
			}
			var errs []error
			for _, path := range args {
				doc, err := showcase.Load(path)
				if err != nil {
					errs = append(errs, err)
					fmt.Fprintf(cmd.OutOrStdout(), "%s: invalid\n", path)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d cards)\n", path, doc.CardCount())
			}
			return errors.Join(errs...)
		},
	}
}

func (a *App) newScriptCommand() *cobra.Command {
	var showcasePath string
	cmd := &cobra.Command{
		Use:   "script <script.yaml>",
		Short: "Replay a scripted pointer session and capture screenshots",
		Long: `script opens the showcase, replays the injected pointer moves, scrolls
and waits listed in the script, writes its screenshots, and exits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			runner, err := folio.LoadTestScript(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if showcasePath == "" {
				showcasePath = a.config.Showcase
			}
			scene, _, err := a.buildScene(showcasePath)
			if err != nil {
				return err
			}
			scene.SetTestRunner(runner)
			scene.SetUpdateFunc(exitAfterScript(runner))
			return folio.Run(scene, a.runConfig(""))
		},
	}
	cmd.Flags().StringVar(&showcasePath, "showcase", "", "showcase file (default from config)")
	return cmd
}

// exitAfterScript ends the game loop one frame after the runner finishes so
// that screenshots queued on its last step are drawn and written.
func exitAfterScript(runner *folio.TestRunner) func() error {
	drained := false
	return func() error {
		if !runner.Done() {
			return nil
		}
		if drained {
			return ebiten.Termination
		}
		drained = true
		return nil
	}
}
