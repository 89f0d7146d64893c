package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/resource"
	"github.com/crmarques/soldo/server"
)

func decodeJSONResponse(body []byte) (resource.Value, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	value, err := resource.DecodeJSON(body)
	if err != nil {
		return nil, faults.NewTypedError(faults.MalformedInputError, "response body is not valid JSON", err)
	}
	return value, nil
}

// decodeListResponse requires the paginated envelope object; its content is
// validated when a collection is filled.
func decodeListResponse(body []byte) (resource.Value, error) {
	value, err := decodeJSONResponse(body)
	if err != nil {
		return nil, err
	}
	if _, ok := value.(*resource.Object); !ok {
		return nil, server.NewPayloadShapeError(fmt.Sprintf("list response must be a JSON object, got %s", describeShape(value)), nil)
	}
	return value, nil
}

func describeShape(value resource.Value) string {
	switch value.(type) {
	case nil:
		return "an empty body"
	case []any:
		return "an array"
	default:
		return "a scalar"
	}
}

func classifyStatusError(statusCode int, body []byte) error {
	message := fmt.Sprintf("remote request failed with status %d: %s", statusCode, summarizeBody(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return authError(message, nil)
	case http.StatusNotFound:
		return notFoundError(message, nil)
	case http.StatusConflict:
		return conflictError(message, nil)
	}

	if statusCode >= 400 && statusCode < 500 {
		return validationError(message, nil)
	}
	return transportError(message, nil)
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}
