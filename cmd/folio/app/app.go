// Package app wires the folio CLI: configuration, logging and the cobra
// command tree.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// App holds the CLI's configuration and shared dependencies.
type App struct {
	version string
	viper   *viper.Viper

	config *Config
	logger zerolog.Logger

	stdout io.Writer
	stderr io.Writer
}

// Option customizes an App.
type Option func(*App)

// WithOutput redirects command output and logs, mainly for tests.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// New creates an App. Configuration is resolved once flags are parsed, just
// before a command runs.
func New(version string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		viper:   newViper(),
		logger:  zerolog.Nop(),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Version returns the build version.
func (a *App) Version() string {
	return a.version
}

// Config returns the resolved configuration, or nil before a command runs.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	fmt.Fprintf(os.Stderr, "folio: %v\n", err)
	os.Exit(1)
}
