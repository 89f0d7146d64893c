package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	debugctx "github.com/crmarques/soldo/debugctx"
	"github.com/crmarques/soldo/resource"
)

func (g *HTTPResourceServerGateway) execute(
	ctx context.Context,
	method string,
	requestPath string,
	query url.Values,
	payload *resource.Object,
) ([]byte, error) {
	ctx, span := g.tracer.Start(
		ctx,
		"soldo "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", requestPath),
		),
	)
	defer span.End()

	body, status, err := g.executeOnce(ctx, method, requestPath, query, payload)
	if status == http.StatusUnauthorized {
		g.invalidateToken()
		debugctx.Printf(ctx, "access token rejected, retrying once with a fresh token")
		body, status, err = g.executeOnce(ctx, method, requestPath, query, payload)
	}
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return body, nil
}

func (g *HTTPResourceServerGateway) executeOnce(
	ctx context.Context,
	method string,
	requestPath string,
	query url.Values,
	payload *resource.Object,
) ([]byte, int, error) {
	request, err := g.newRequest(ctx, method, requestPath, query, payload)
	if err != nil {
		return nil, 0, err
	}

	if err := g.wait(ctx); err != nil {
		return nil, 0, err
	}
	response, err := g.doRequest(ctx, "resource", request)
	if err != nil {
		return nil, 0, transportError("remote request failed", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, response.StatusCode, transportError("failed to read remote response body", err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return nil, response.StatusCode, classifyStatusError(response.StatusCode, body)
	}

	return body, response.StatusCode, nil
}

func (g *HTTPResourceServerGateway) newRequest(
	ctx context.Context,
	method string,
	requestPath string,
	query url.Values,
	payload *resource.Object,
) (*http.Request, error) {
	targetURL, err := g.resolveRequestURL(requestPath, query)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, validationError("failed to encode JSON request body", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, targetURL, bodyReader)
	if err != nil {
		return nil, internalError("failed to create remote request", err)
	}

	request.Header.Set("Accept", defaultMediaType)
	if payload != nil {
		request.Header.Set("Content-Type", defaultMediaType)
	}

	if err := g.applyAuth(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (g *HTTPResourceServerGateway) resolveRequestURL(requestPath string, query url.Values) (string, error) {
	trimmed := strings.TrimSpace(requestPath)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") {
		return "", validationError(fmt.Sprintf("request path %q must be absolute", requestPath), nil)
	}
	if parsed, err := url.Parse(trimmed); err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "", validationError("request path must be relative to the api root", err)
	}

	target := *g.apiURL
	// Remote paths arrive with placeholder values already escaped.
	target.RawPath = joinBaseAndRequestPath(g.apiURL.EscapedPath(), trimmed)
	decodedPath, err := url.PathUnescape(target.RawPath)
	if err != nil {
		return "", validationError(fmt.Sprintf("request path %q is not properly escaped", requestPath), err)
	}
	target.Path = decodedPath

	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	return target.String(), nil
}

func (g *HTTPResourceServerGateway) wait(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return transportError("rate limiter wait aborted", err)
	}
	return nil
}
