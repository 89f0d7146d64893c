package core

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/soldo"
)

// SoldoContext bundles the services a command needs once a context has been
// resolved.
type SoldoContext struct {
	Contexts config.ContextService
	Context  config.Context
	Client   *soldo.Client
}

type BootstrapConfig struct {
	ContextCatalogPath string
	HTTPClient         *http.Client
	TracerProvider     trace.TracerProvider
	PageConcurrency    int
}
