// Package webhook authenticates inbound Soldo webhook notifications.
//
// An event is accepted only when the fingerprint recomputed from the carried
// resource and the shared secret equals the fingerprint sent with it.
package webhook

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/crmarques/soldo/faults"
	"github.com/crmarques/soldo/resource"
)

const (
	EventTypeCard        = "Card"
	EventTypeTransaction = "Transaction"
	EventTypeEmployee    = "Employee"
)

const (
	fieldEventType = "event_type"
	fieldEventName = "event_name"
	fieldData      = "data"
)

var (
	// ErrUnsupportedType marks events whose type is outside Types().
	ErrUnsupportedType = errors.New("unsupported event type")
	// ErrFingerprintMismatch marks events whose fingerprint does not verify.
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
)

// Types lists the supported event types.
func Types() []string {
	return []string{EventTypeCard, EventTypeTransaction, EventTypeEmployee}
}

func supportedType(eventType string) bool {
	for _, item := range Types() {
		if item == eventType {
			return true
		}
	}
	return false
}

// Event is a verified webhook notification.
type Event struct {
	eventType string
	name      string
	resource  *resource.Resource
}

// NewEvent validates payload, rebuilds the resource named by event_type and
// checks fingerprint against the one recomputed with fingerprintOrder and
// secret. Every failure is an InvalidEventError.
func NewEvent(
	registry *resource.Registry,
	payload resource.Value,
	fingerprint string,
	fingerprintOrder string,
	secret string,
) (*Event, error) {
	data, ok := resource.AsObject(payload)
	if !ok {
		return nil, invalidEventError("invalid webhook data", nil)
	}
	eventType, okType := nonEmptyString(data.Get(fieldEventType))
	eventName, okName := nonEmptyString(data.Get(fieldEventName))
	eventData, okData := resource.AsObject(data.Get(fieldData))
	if !okType || !okName || !okData {
		return nil, invalidEventError("invalid webhook data", nil)
	}

	if !supportedType(eventType) {
		return nil, invalidEventError("event type not supported", ErrUnsupportedType)
	}

	item, err := registry.New(eventType, eventData)
	if err != nil {
		return nil, invalidEventError("invalid webhook data", err)
	}

	expected := item.BuildFingerprint(resource.ParseFingerprintOrder(fingerprintOrder), secret)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(fingerprint)) != 1 {
		return nil, invalidEventError("cannot verify the given fingerprint", ErrFingerprintMismatch)
	}

	return &Event{
		eventType: item.EventType(),
		name:      eventName,
		resource:  item,
	}, nil
}

// Type is the event type reported by the carried resource.
func (e *Event) Type() string {
	return e.eventType
}

// Name is the provider event name, e.g. "card_created".
func (e *Event) Name() string {
	return e.name
}

// Resource returns the resource that triggered the event.
func (e *Event) Resource() *resource.Resource {
	return e.resource
}

func (e *Event) MarshalJSON() ([]byte, error) {
	envelope := resource.NewObject()
	envelope.Set(fieldEventType, e.eventType)
	envelope.Set(fieldEventName, e.name)
	envelope.Set(fieldData, e.resource.Object())
	return envelope.MarshalJSON()
}

func (e *Event) MarshalYAML() (any, error) {
	envelope := resource.NewObject()
	envelope.Set(fieldEventType, e.eventType)
	envelope.Set(fieldEventName, e.name)
	envelope.Set(fieldData, e.resource.Object())
	return envelope.MarshalYAML()
}

func nonEmptyString(value resource.Value) (string, bool) {
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

func invalidEventError(message string, cause error) error {
	return faults.NewTypedError(faults.InvalidEventError, message, cause)
}
