package http

import (
	"context"
	"net/http"
	"net/url"

	debugctx "github.com/crmarques/soldo/debugctx"
)

func (g *HTTPResourceServerGateway) doRequest(ctx context.Context, purpose string, request *http.Request) (*http.Response, error) {
	debugctx.Printf(
		ctx,
		"http request purpose=%q method=%q url=%q",
		purpose,
		request.Method,
		redactURLForDebug(request.URL),
	)

	response, err := g.client.Do(request)
	if err != nil {
		debugctx.Printf(
			ctx,
			"http request failed purpose=%q method=%q url=%q error=%v",
			purpose,
			request.Method,
			redactURLForDebug(request.URL),
			err,
		)
		return nil, err
	}

	debugctx.Printf(
		ctx,
		"http response purpose=%q method=%q url=%q status=%d",
		purpose,
		request.Method,
		redactURLForDebug(request.URL),
		response.StatusCode,
	)
	return response, nil
}

func redactURLForDebug(value *url.URL) string {
	if value == nil {
		return ""
	}

	cloned := *value
	cloned.User = nil

	query := cloned.Query()
	if len(query) > 0 {
		for key, values := range query {
			redacted := make([]string, len(values))
			for idx := range values {
				redacted[idx] = "<redacted>"
			}
			query[key] = redacted
		}
		cloned.RawQuery = query.Encode()
	}

	return cloned.String()
}
