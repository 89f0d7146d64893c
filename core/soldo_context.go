package core

import (
	"context"

	"github.com/crmarques/soldo/config"
	configfile "github.com/crmarques/soldo/internal/providers/config/file"
	serverhttp "github.com/crmarques/soldo/internal/providers/server/http"
	"github.com/crmarques/soldo/soldo"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath)
}

// NewClient builds a Soldo client for an already resolved context.
func NewClient(opts BootstrapConfig, cfg config.Context) (*soldo.Client, error) {
	gatewayOpts := make([]serverhttp.GatewayOption, 0, 2)
	if opts.HTTPClient != nil {
		gatewayOpts = append(gatewayOpts, serverhttp.WithHTTPClient(opts.HTTPClient))
	}
	if opts.TracerProvider != nil {
		gatewayOpts = append(gatewayOpts, serverhttp.WithTracerProvider(opts.TracerProvider))
	}

	gateway, err := serverhttp.NewHTTPResourceServerGateway(cfg, gatewayOpts...)
	if err != nil {
		return nil, err
	}

	clientOpts := []soldo.Option{}
	if opts.PageConcurrency > 0 {
		clientOpts = append(clientOpts, soldo.WithPageConcurrency(opts.PageConcurrency))
	}
	return soldo.New(gateway, clientOpts...)
}

// NewSoldoContext resolves selection against the context catalog and builds a
// client for it.
func NewSoldoContext(ctx context.Context, opts BootstrapConfig, selection config.ContextSelection) (SoldoContext, error) {
	contextService := NewContextService(opts)
	resolved, err := contextService.ResolveContext(ctx, selection)
	if err != nil {
		return SoldoContext{}, err
	}

	client, err := NewClient(opts, resolved)
	if err != nil {
		return SoldoContext{}, err
	}

	return SoldoContext{
		Contexts: contextService,
		Context:  resolved,
		Client:   client,
	}, nil
}
