package file

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/crmarques/soldo/config"
)

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}

	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

// validateConfig checks the persisted shape. Credentials may be left empty
// here and supplied from the environment at resolution time.
func validateConfig(cfg config.Context) error {
	cfg = normalizeConfig(cfg)

	if cfg.Name == "" {
		return validationError("context name must not be empty", nil)
	}
	if _, err := config.ResolveEndpoint(cfg); err != nil {
		return err
	}
	if cfg.RateLimit < 0 {
		return validationError("rate-limit must not be negative", nil)
	}
	if cfg.Log != nil {
		switch cfg.Log.Level {
		case "", config.LogLevelError, config.LogLevelWarning, config.LogLevelInfo, config.LogLevelDebug:
		default:
			return validationError(fmt.Sprintf("log.level %q must be one of error, warning, info, debug", cfg.Log.Level), nil)
		}
	}

	return nil
}

func validateResolvedConfig(cfg config.Context) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if cfg.Credentials.ClientID == "" || cfg.Credentials.ClientSecret == "" {
		return validationError("credentials require client-id and client-secret", nil)
	}
	return nil
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.TokenURL = strings.TrimSpace(cfg.TokenURL)
	cfg.APIVersion = strings.TrimSpace(cfg.APIVersion)
	if cfg.Log != nil {
		normalized := *cfg.Log
		normalized.Level = strings.ToLower(strings.TrimSpace(normalized.Level))
		cfg.Log = &normalized
	}
	return cfg
}

func applyConfigDefaults(cfg config.Context) config.Context {
	cfg = normalizeConfig(cfg)
	if cfg.Environment == "" {
		cfg.Environment = config.EnvironmentDemo
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = config.DefaultAPIVersion
	}
	webhook := config.Webhook{}
	if cfg.Webhook != nil {
		webhook = *cfg.Webhook
	}
	if webhook.FingerprintOrder == "" {
		webhook.FingerprintOrder = config.DefaultWebhookFingerprintOrder
	}
	cfg.Webhook = &webhook
	if cfg.Log != nil && cfg.Log.Level == "" {
		logCfg := *cfg.Log
		logCfg.Level = config.LogLevelInfo
		cfg.Log = &logCfg
	}
	return cfg
}

func applyEnvironment(cfg config.Context, lookupEnv func(string) string) config.Context {
	if value := lookupEnv(config.ClientIDEnvVar); value != "" {
		cfg.Credentials.ClientID = value
	}
	if value := lookupEnv(config.ClientSecretEnvVar); value != "" {
		cfg.Credentials.ClientSecret = value
	}
	if value := lookupEnv(config.WebhookSecretEnvVar); value != "" {
		webhook := config.Webhook{}
		if cfg.Webhook != nil {
			webhook = *cfg.Webhook
		}
		webhook.Secret = value
		cfg.Webhook = &webhook
	}
	return cfg
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		switch key {
		case "environment":
			cfg.Environment = value
		case "base-url":
			cfg.BaseURL = value
		case "token-url":
			cfg.TokenURL = value
		case "api-version":
			cfg.APIVersion = value
		case "credentials.client-id":
			cfg.Credentials.ClientID = value
		case "credentials.client-secret":
			cfg.Credentials.ClientSecret = value
		case "rate-limit":
			limit, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return config.Context{}, validationError(fmt.Sprintf("override rate-limit %q is not a number", value), err)
			}
			cfg.RateLimit = limit
		case "webhook.secret", "webhook.fingerprint-order":
			webhook := config.Webhook{}
			if cfg.Webhook != nil {
				webhook = *cfg.Webhook
			}
			if key == "webhook.secret" {
				webhook.Secret = value
			} else {
				webhook.FingerprintOrder = value
			}
			cfg.Webhook = &webhook
		case "log.level":
			logCfg := config.Log{Enabled: true}
			if cfg.Log != nil {
				logCfg = *cfg.Log
			}
			logCfg.Level = value
			cfg.Log = &logCfg
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}

	return cfg, nil
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
