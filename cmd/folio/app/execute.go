package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// createRootCommand creates the root command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "folio",
		Short: "Interactive portfolio showcase viewer",
		Long: `folio renders a showcase page described in YAML: sections of cards
that tilt toward the pointer and animate into view as the page scrolls.`,
		Version:       a.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(configFile)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("folio {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./folio.yaml)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "log format: auto, console, json")
	flags.Int("width", 0, "window width in pixels")
	flags.Int("height", 0, "window height in pixels")
	flags.Bool("debug", false, "enable scene debug mode and per-frame stats")
	flags.String("assets", "", "directory card images are loaded from (default is the showcase file's directory)")

	a.bindFlag(root, keyLogLevel, "log-level")
	a.bindFlag(root, keyLogFormat, "log-format")
	a.bindFlag(root, keyWidth, "width")
	a.bindFlag(root, keyHeight, "height")
	a.bindFlag(root, keyDebug, "debug")
	a.bindFlag(root, keyAssetsDir, "assets")

	root.AddCommand(
		a.newRunCommand(),
		a.newValidateCommand(),
		a.newScriptCommand(),
	)
	return root
}

// bindFlag binds a persistent flag to a viper key so that an explicitly set
// flag overrides the environment and config file.
func (a *App) bindFlag(cmd *cobra.Command, key, flag string) {
	if err := a.viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// setup resolves the configuration and logger before a command runs.
func (a *App) setup(configFile string) error {
	cfg, err := LoadConfig(a.viper, configFile)
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = NewLogger(cfg, a.stderr)
	if cfg.ConfigFile != "" {
		a.logger.Debug().Str("file", cfg.ConfigFile).Msg("config loaded")
	}
	return nil
}
