package main

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/core"
	"github.com/crmarques/soldo/internal/cli"
	"github.com/crmarques/soldo/soldo"
)

func main() {
	if err := cli.Execute(newDependencies()); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}

func newDependencies() cli.Dependencies {
	bootstrap := core.BootstrapConfig{TracerProvider: otel.GetTracerProvider()}
	return cli.Dependencies{
		Contexts: core.NewContextService(bootstrap),
		NewClient: func(_ context.Context, cfg config.Context) (*soldo.Client, error) {
			return core.NewClient(bootstrap, cfg)
		},
	}
}
