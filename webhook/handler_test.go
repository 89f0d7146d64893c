package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const cardBody = `{"event_type":"Card","event_name":"card_updated","data":{"id":"C-9","status":"active"}}`

func newTestHandler(t *testing.T, consume Consumer) (*Handler, *Metrics, *prometheus.Registry) {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	handler := NewHandler(
		Verifier{Registry: newTestRegistry(t), Secret: testSecret, DefaultOrder: "id,status,token"},
		consume,
		WithMetrics(metrics),
		WithMaxBodyBytes(4096),
	)
	return handler, metrics, registry
}

func deliver(handler http.Handler, body string, fingerprint string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/webhooks/soldo", strings.NewReader(body))
	request.Header.Set(HeaderFingerprint, fingerprint)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeDelivery(t *testing.T, recorder *httptest.ResponseRecorder) deliveryResponse {
	t.Helper()

	var response deliveryResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return response
}

func TestHandlerServeHTTP(t *testing.T) {
	t.Parallel()

	validFingerprint := digest("C-9active" + testSecret)

	tests := []struct {
		name        string
		body        string
		fingerprint string
		consumeErr  error
		status      int
		eventType   string
		outcome     string
	}{
		{name: "accepted", body: cardBody, fingerprint: validFingerprint, status: http.StatusAccepted, eventType: "Card", outcome: OutcomeAccepted},
		{name: "fingerprint_mismatch", body: cardBody, fingerprint: digest("forged"), status: http.StatusUnauthorized, eventType: "unknown", outcome: OutcomeUnauthorized},
		{name: "malformed_body", body: "{", fingerprint: validFingerprint, status: http.StatusBadRequest, eventType: "unknown", outcome: OutcomeRejected},
		{name: "unsupported_type", body: `{"event_type":"Wallet","event_name":"x","data":{"id":"W"}}`, fingerprint: validFingerprint, status: http.StatusBadRequest, eventType: "unknown", outcome: OutcomeRejected},
		{name: "consumer_failure", body: cardBody, fingerprint: validFingerprint, consumeErr: errors.New("boom"), status: http.StatusInternalServerError, eventType: "Card", outcome: OutcomeFailed},
		{name: "body_too_large", body: strings.Repeat("x", 5000), fingerprint: validFingerprint, status: http.StatusRequestEntityTooLarge, eventType: "unknown", outcome: OutcomeRejected},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var consumed *Event
			handler, metrics, _ := newTestHandler(t, func(_ context.Context, event *Event) error {
				consumed = event
				return test.consumeErr
			})

			recorder := deliver(handler, test.body, test.fingerprint)
			if recorder.Code != test.status {
				t.Fatalf("expected status %d, got %d: %s", test.status, recorder.Code, recorder.Body.String())
			}

			response := decodeDelivery(t, recorder)
			if response.Status != test.outcome {
				t.Fatalf("expected outcome %q, got %q", test.outcome, response.Status)
			}
			if response.DeliveryID == "" || recorder.Header().Get(HeaderDeliveryID) != response.DeliveryID {
				t.Fatalf("expected delivery id header to match body, got %q", response.DeliveryID)
			}

			counter := metrics.EventsCounter().WithLabelValues(test.eventType, test.outcome)
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected one %s/%s event, got %v", test.eventType, test.outcome, got)
			}

			if test.status == http.StatusAccepted || test.consumeErr != nil {
				if consumed == nil || consumed.Resource().Get("id") != "C-9" {
					t.Fatalf("expected consumer to receive card C-9")
				}
			} else if consumed != nil {
				t.Fatalf("expected consumer not to run")
			}
		})
	}
}

func TestHandlerHonorsFingerprintOrderHeader(t *testing.T) {
	t.Parallel()

	handler, _, _ := newTestHandler(t, nil)
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(cardBody))
	request.Header.Set(HeaderFingerprint, digest("activeC-9"+testSecret))
	request.Header.Set(HeaderFingerprintOrder, "status,id,token")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	handler, _, registry := newTestHandler(t, nil)
	server := httptest.NewServer(NewRouter("/webhooks/soldo", handler, registry))
	defer server.Close()

	request, err := http.NewRequest(http.MethodPost, server.URL+"/webhooks/soldo", strings.NewReader(cardBody))
	if err != nil {
		t.Fatalf("NewRequest returned error: %v", err)
	}
	request.Header.Set(HeaderFingerprint, digest("C-9active"+testSecret))
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("POST returned error: %v", err)
	}
	_ = response.Body.Close()
	if response.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", response.StatusCode)
	}

	response, err = http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics returned error: %v", err)
	}
	body, _ := io.ReadAll(response.Body)
	_ = response.Body.Close()
	if !strings.Contains(string(body), `soldo_webhook_events_total{outcome="accepted",type="Card"} 1`) {
		t.Fatalf("expected accepted counter in metrics output, got:\n%s", body)
	}

	response, err = http.Get(server.URL + "/webhooks/soldo")
	if err != nil {
		t.Fatalf("GET webhook returned error: %v", err)
	}
	_ = response.Body.Close()
	if response.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", response.StatusCode)
	}
}
