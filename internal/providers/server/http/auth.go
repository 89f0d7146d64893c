package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crmarques/soldo/config"
)

const tokenRefreshMargin = 30 * time.Second

func (g *HTTPResourceServerGateway) applyAuth(ctx context.Context, request *http.Request) error {
	token, err := g.oauthToken(ctx)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// oauthToken returns the cached client-credentials token, fetching a new one
// once the cached token reaches its refresh time.
func (g *HTTPResourceServerGateway) oauthToken(ctx context.Context) (string, error) {
	g.oauthMu.Lock()
	defer g.oauthMu.Unlock()

	if g.oauthAccessToken != "" && g.now().Before(g.oauthRefreshAt) {
		return g.oauthAccessToken, nil
	}

	formValues := url.Values{}
	formValues.Set("client_id", g.oauth2.ClientID)
	formValues.Set("client_secret", g.oauth2.ClientSecret)
	formValues.Set("grant_type", config.OAuthClientCreds)

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.tokenURL,
		strings.NewReader(formValues.Encode()),
	)
	if err != nil {
		return "", internalError("failed to create oauth2 token request", err)
	}
	request.Header.Set("Accept", defaultMediaType)
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := g.wait(ctx); err != nil {
		return "", err
	}
	response, err := g.doRequest(ctx, "oauth2-token", request)
	if err != nil {
		return "", transportError("oauth2 token request failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return "", transportError("failed to read oauth2 token response", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return "", authError(
			fmt.Sprintf("oauth2 token request failed with status %d: %s", response.StatusCode, summarizeBody(body)),
			nil,
		)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return "", authError("oauth2 token response is not valid JSON", err)
	}
	if strings.TrimSpace(tokenResponse.AccessToken) == "" {
		return "", authError("oauth2 token response does not include access_token", nil)
	}

	lifetime := time.Hour
	if tokenResponse.ExpiresIn > 0 {
		lifetime = time.Duration(tokenResponse.ExpiresIn) * time.Second
	}

	g.oauthAccessToken = tokenResponse.AccessToken
	g.oauthRefreshAt = g.now().Add(lifetime - refreshMargin(lifetime))
	return tokenResponse.AccessToken, nil
}

// invalidateToken drops the cached token so the next call re-authenticates.
func (g *HTTPResourceServerGateway) invalidateToken() {
	g.oauthMu.Lock()
	g.oauthAccessToken = ""
	g.oauthRefreshAt = time.Time{}
	g.oauthMu.Unlock()
}

// refreshMargin is tokenRefreshMargin, capped at half of short lifetimes.
func refreshMargin(lifetime time.Duration) time.Duration {
	return min(tokenRefreshMargin, lifetime/2)
}
