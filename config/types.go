package config

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "SOLDO_CONTEXTS_FILE"
	ClientIDEnvVar            = "SOLDO_CLIENT_ID"
	ClientSecretEnvVar        = "SOLDO_CLIENT_SECRET"
	WebhookSecretEnvVar       = "SOLDO_WEBHOOK_SECRET"
	DefaultContextCatalogPath = "~/.soldo/contexts.yaml"

	EnvironmentDemo = "demo"
	EnvironmentLive = "live"

	DefaultAPIVersion              = "2"
	SupportedAPIVersions           = ">=2.0.0, <3.0.0"
	DefaultWebhookFingerprintOrder = "id,token"

	LogLevelError   = "error"
	LogLevelWarning = "warning"
	LogLevelInfo    = "info"
	LogLevelDebug   = "debug"

	OAuthClientCreds = "client_credentials"
)

type ContextCatalog struct {
	Contexts   []Context `json:"contexts" yaml:"contexts"`
	CurrentCtx string    `json:"current-ctx" yaml:"current-ctx"`
}

type Context struct {
	Name        string      `json:"name" yaml:"name"`
	Environment string      `json:"environment,omitempty" yaml:"environment,omitempty"`
	BaseURL     string      `json:"base-url,omitempty" yaml:"base-url,omitempty"`
	TokenURL    string      `json:"token-url,omitempty" yaml:"token-url,omitempty"`
	APIVersion  string      `json:"api-version,omitempty" yaml:"api-version,omitempty"`
	Credentials Credentials `json:"credentials" yaml:"credentials"`
	// RateLimit caps outgoing requests per second; 0 disables the limiter.
	RateLimit float64  `json:"rate-limit,omitempty" yaml:"rate-limit,omitempty"`
	Webhook   *Webhook `json:"webhook,omitempty" yaml:"webhook,omitempty"`
	Log       *Log     `json:"log,omitempty" yaml:"log,omitempty"`
}

type Credentials struct {
	ClientID     string `json:"client-id" yaml:"client-id"`
	ClientSecret string `json:"client-secret" yaml:"client-secret"`
}

type Webhook struct {
	Secret           string `json:"secret,omitempty" yaml:"secret,omitempty"`
	FingerprintOrder string `json:"fingerprint-order,omitempty" yaml:"fingerprint-order,omitempty"`
}

type Log struct {
	Enabled bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Endpoint is the fully resolved remote API location of a context.
type Endpoint struct {
	BaseURL  string
	TokenURL string
	// APIRoot is the versioned path prefix every resource path is joined to.
	APIRoot string
}
