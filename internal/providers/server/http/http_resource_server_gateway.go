package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/resource"
	"github.com/crmarques/soldo/server"
)

const (
	defaultHTTPTimeout  = 30 * time.Second
	defaultMediaType    = "application/json"
	maxResponseBytes    = 4 << 20
	instrumentationName = "github.com/crmarques/soldo/internal/providers/server/http"
)

var _ server.ResourceServer = (*HTTPResourceServerGateway)(nil)
var _ server.AccessTokenProvider = (*HTTPResourceServerGateway)(nil)

type HTTPResourceServerGateway struct {
	apiURL   *url.URL
	tokenURL string
	oauth2   config.Credentials
	client   *http.Client
	limiter  *rate.Limiter
	tracer   trace.Tracer
	now      func() time.Time

	oauthMu          sync.Mutex
	oauthAccessToken string
	oauthRefreshAt   time.Time
}

type GatewayOption func(*HTTPResourceServerGateway)

func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *HTTPResourceServerGateway) {
		if g == nil || client == nil {
			return
		}
		g.client = client
	}
}

func WithTracerProvider(provider trace.TracerProvider) GatewayOption {
	return func(g *HTTPResourceServerGateway) {
		if g == nil || provider == nil {
			return
		}
		g.tracer = provider.Tracer(instrumentationName)
	}
}

func withClock(now func() time.Time) GatewayOption {
	return func(g *HTTPResourceServerGateway) {
		g.now = now
	}
}

// NewHTTPResourceServerGateway builds a gateway for a resolved context.
func NewHTTPResourceServerGateway(cfg config.Context, opts ...GatewayOption) (*HTTPResourceServerGateway, error) {
	endpoint, err := config.ResolveEndpoint(cfg)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Credentials.ClientID) == "" || strings.TrimSpace(cfg.Credentials.ClientSecret) == "" {
		return nil, validationError("credentials require client-id and client-secret", nil)
	}
	if cfg.RateLimit < 0 {
		return nil, validationError("rate-limit must not be negative", nil)
	}

	apiURL, err := url.Parse(endpoint.BaseURL)
	if err != nil {
		return nil, validationError("base-url is invalid", err)
	}
	apiURL.Path = joinBaseAndRequestPath(apiURL.Path, endpoint.APIRoot)

	gateway := &HTTPResourceServerGateway{
		apiURL:   apiURL,
		tokenURL: endpoint.TokenURL,
		oauth2:   cfg.Credentials,
		client: &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		tracer: otel.Tracer(instrumentationName),
		now:    time.Now,
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		gateway.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}
	return gateway, nil
}

func (g *HTTPResourceServerGateway) List(ctx context.Context, collectionPath string, query url.Values) (resource.Value, error) {
	body, err := g.execute(ctx, http.MethodGet, collectionPath, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeListResponse(body)
}

func (g *HTTPResourceServerGateway) Get(ctx context.Context, resourcePath string) (resource.Value, error) {
	body, err := g.execute(ctx, http.MethodGet, resourcePath, nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSONResponse(body)
}

func (g *HTTPResourceServerGateway) Update(ctx context.Context, resourcePath string, payload *resource.Object) (resource.Value, error) {
	if payload == nil {
		payload = resource.NewObject()
	}
	body, err := g.execute(ctx, http.MethodPut, resourcePath, nil, payload)
	if err != nil {
		return nil, err
	}
	return decodeJSONResponse(body)
}

func (g *HTTPResourceServerGateway) GetAccessToken(ctx context.Context) (string, error) {
	if g == nil {
		return "", validationError("resource server is not configured", nil)
	}
	return g.oauthToken(ctx)
}

func joinBaseAndRequestPath(basePath string, requestPath string) string {
	trimmedBase := strings.TrimRight(basePath, "/")
	trimmedRequest := strings.TrimLeft(requestPath, "/")
	if trimmedRequest == "" {
		if trimmedBase == "" {
			return "/"
		}
		return trimmedBase
	}
	return trimmedBase + "/" + trimmedRequest
}
