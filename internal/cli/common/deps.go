package common

import (
	"context"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/soldo"
)

// ClientFactory builds a client for a resolved context.
type ClientFactory func(ctx context.Context, cfg config.Context) (*soldo.Client, error)

type CommandDependencies struct {
	Contexts  config.ContextService
	NewClient ClientFactory
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts, nil
}

// ResolveContext resolves the context selected by --context, falling back to
// the current one.
func ResolveContext(ctx context.Context, deps CommandDependencies, globalFlags *GlobalFlags) (config.Context, error) {
	contexts, err := RequireContexts(deps)
	if err != nil {
		return config.Context{}, err
	}
	return contexts.ResolveContext(ctx, config.ContextSelection{Name: selectedContextName(ctx, globalFlags)})
}

func RequireClient(ctx context.Context, deps CommandDependencies, globalFlags *GlobalFlags) (*soldo.Client, error) {
	if deps.NewClient == nil {
		return nil, ValidationError("soldo client factory is not configured", nil)
	}
	resolved, err := ResolveContext(ctx, deps, globalFlags)
	if err != nil {
		return nil, err
	}
	return deps.NewClient(ctx, resolved)
}

func selectedContextName(ctx context.Context, globalFlags *GlobalFlags) string {
	if globalFlags != nil && globalFlags.Context != "" {
		return globalFlags.Context
	}
	return ContextName(ctx)
}
