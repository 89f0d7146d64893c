package server

import (
	"context"
	"net/url"

	"github.com/crmarques/soldo/resource"
)

// ResourceServer performs the remote calls behind every resource operation.
// Paths are remote paths as built by the resource package, relative to the
// versioned API root.
type ResourceServer interface {
	List(ctx context.Context, collectionPath string, query url.Values) (resource.Value, error)
	Get(ctx context.Context, resourcePath string) (resource.Value, error)
	Update(ctx context.Context, resourcePath string, body *resource.Object) (resource.Value, error)
}

// AccessTokenProvider is an optional resource-server capability used by CLI
// inspection commands to retrieve an OAuth2 access token when supported.
type AccessTokenProvider interface {
	GetAccessToken(ctx context.Context) (string, error)
}
