package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crmarques/soldo/faults"
)

const (
	HeaderFingerprint      = "X-Soldo-Fingerprint"
	HeaderFingerprintOrder = "X-Soldo-Fingerprint-Order"
	HeaderDeliveryID       = "X-Delivery-Id"

	defaultMaxBodyBytes = 1 << 20
)

// Consumer receives every verified event. A returned error answers the
// delivery with 500 so the provider retries it.
type Consumer func(ctx context.Context, event *Event) error

type Handler struct {
	verifier     Verifier
	consume      Consumer
	metrics      *Metrics
	logger       logr.Logger
	maxBodyBytes int64
	now          func() time.Time
}

type HandlerOption func(*Handler)

func WithMetrics(metrics *Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

func WithLogger(logger logr.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithMaxBodyBytes(limit int64) HandlerOption {
	return func(h *Handler) {
		if limit > 0 {
			h.maxBodyBytes = limit
		}
	}
}

func NewHandler(verifier Verifier, consume Consumer, opts ...HandlerOption) *Handler {
	handler := &Handler{
		verifier:     verifier,
		consume:      consume,
		logger:       logr.Discard(),
		maxBodyBytes: defaultMaxBodyBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(handler)
	}
	return handler
}

type deliveryResponse struct {
	DeliveryID string `json:"delivery_id"`
	Status     string `json:"status"`
	EventType  string `json:"event_type,omitempty"`
	EventName  string `json:"event_name,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := h.now()
	deliveryID := uuid.NewString()
	logger := h.logger.WithValues("delivery", deliveryID)

	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil || int64(len(body)) > h.maxBodyBytes {
		logger.Info("webhook body rejected", "reason", "unreadable or too large")
		h.metrics.observe("", OutcomeRejected, h.since(started))
		writeDelivery(w, http.StatusRequestEntityTooLarge, deliveryResponse{
			DeliveryID: deliveryID,
			Status:     OutcomeRejected,
			Error:      "request body is unreadable or too large",
		})
		return
	}

	event, err := h.verifier.Verify(
		body,
		r.Header.Get(HeaderFingerprint),
		r.Header.Get(HeaderFingerprintOrder),
	)
	if err != nil {
		status, outcome := classifyVerifyError(err)
		logger.Info("webhook delivery refused", "outcome", outcome, "error", err.Error())
		h.metrics.observe("", outcome, h.since(started))
		writeDelivery(w, status, deliveryResponse{
			DeliveryID: deliveryID,
			Status:     outcome,
			Error:      err.Error(),
		})
		return
	}

	logger = logger.WithValues("type", event.Type(), "name", event.Name())
	if h.consume != nil {
		if err := h.consume(logr.NewContext(r.Context(), logger), event); err != nil {
			logger.Error(err, "webhook consumer failed")
			h.metrics.observe(event.Type(), OutcomeFailed, h.since(started))
			writeDelivery(w, http.StatusInternalServerError, deliveryResponse{
				DeliveryID: deliveryID,
				Status:     OutcomeFailed,
				EventType:  event.Type(),
				EventName:  event.Name(),
				Error:      "event could not be processed",
			})
			return
		}
	}

	logger.V(1).Info("webhook delivery accepted")
	h.metrics.observe(event.Type(), OutcomeAccepted, h.since(started))
	writeDelivery(w, http.StatusAccepted, deliveryResponse{
		DeliveryID: deliveryID,
		Status:     OutcomeAccepted,
		EventType:  event.Type(),
		EventName:  event.Name(),
	})
}

func (h *Handler) since(started time.Time) float64 {
	return h.now().Sub(started).Seconds()
}

func classifyVerifyError(err error) (int, string) {
	if errors.Is(err, ErrFingerprintMismatch) {
		return http.StatusUnauthorized, OutcomeUnauthorized
	}
	if faults.IsCategory(err, faults.InvalidEventError) {
		return http.StatusBadRequest, OutcomeRejected
	}
	return http.StatusInternalServerError, OutcomeFailed
}

func writeDelivery(w http.ResponseWriter, status int, response deliveryResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderDeliveryID, response.DeliveryID)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

// NewRouter mounts the handler at path and, when gatherer is set, the
// Prometheus exposition at /metrics.
func NewRouter(path string, handler http.Handler, gatherer prometheus.Gatherer) http.Handler {
	router := chi.NewRouter()
	router.Post(path, handler.ServeHTTP)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return router
}
