// Package main provides the entry point for the folio CLI tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/phanxgames/folio/cmd/folio/app"
)

// Version information populated at build time.
var version = "dev"

func main() {
	application, err := app.New(version)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
