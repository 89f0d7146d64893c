package webhook

import (
	"github.com/crmarques/soldo/resource"
)

// Verifier holds the shared configuration used to authenticate raw webhook
// deliveries.
type Verifier struct {
	Registry *resource.Registry
	Secret   string
	// DefaultOrder is used when a delivery carries no fingerprint order.
	DefaultOrder string
}

// Verify decodes a JSON body and authenticates it.
func (v Verifier) Verify(body []byte, fingerprint string, fingerprintOrder string) (*Event, error) {
	payload, err := resource.DecodeJSON(body)
	if err != nil {
		return nil, invalidEventError("invalid webhook data", err)
	}

	order := fingerprintOrder
	if order == "" {
		order = v.DefaultOrder
	}
	return NewEvent(v.Registry, payload, fingerprint, order, v.Secret)
}
