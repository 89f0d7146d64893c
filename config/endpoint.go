package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/crmarques/soldo/faults"
)

var environmentBaseURLs = map[string]string{
	EnvironmentDemo: "https://api-demo.soldocloud.net",
	EnvironmentLive: "https://api.soldo.com",
}

const tokenPath = "/oauth/authorize"

// ResolveEndpoint turns the environment, URL overrides and api-version of a
// context into absolute URLs.
func ResolveEndpoint(cfg Context) (Endpoint, error) {
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = EnvironmentDemo
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		known, ok := environmentBaseURLs[environment]
		if !ok {
			return Endpoint{}, validationError(fmt.Sprintf("environment %q must be %s or %s", environment, EnvironmentDemo, EnvironmentLive), nil)
		}
		baseURL = known
	}
	if err := validateAbsoluteURL("base-url", baseURL); err != nil {
		return Endpoint{}, err
	}

	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = baseURL + tokenPath
	}
	if err := validateAbsoluteURL("token-url", tokenURL); err != nil {
		return Endpoint{}, err
	}

	major, err := APIMajorVersion(cfg.APIVersion)
	if err != nil {
		return Endpoint{}, err
	}

	return Endpoint{
		BaseURL:  baseURL,
		TokenURL: tokenURL,
		APIRoot:  fmt.Sprintf("/business/v%d", major),
	}, nil
}

// APIMajorVersion validates raw against SupportedAPIVersions. An empty value
// selects DefaultAPIVersion.
func APIMajorVersion(raw string) (uint64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = DefaultAPIVersion
	}

	version, err := semver.NewVersion(value)
	if err != nil {
		return 0, validationError(fmt.Sprintf("api-version %q is not a valid version", value), err)
	}
	constraint, err := semver.NewConstraint(SupportedAPIVersions)
	if err != nil {
		return 0, faults.NewTypedError(faults.InternalError, "invalid supported api version constraint", err)
	}
	if !constraint.Check(version) {
		return 0, validationError(fmt.Sprintf("api-version %q is not supported (%s)", value, SupportedAPIVersions), nil)
	}
	return version.Major(), nil
}

func validateAbsoluteURL(field string, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return validationError(field+" is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validationError(field+" must use http or https", nil)
	}
	if parsed.Host == "" {
		return validationError(field+" host is required", nil)
	}
	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
