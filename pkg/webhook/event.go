package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/chargily-pay/pkg/chargily"
)

// EventType names what happened.
type EventType string

const (
	EventCheckoutPaid     EventType = "checkout.paid"
	EventCheckoutFailed   EventType = "checkout.failed"
	EventCheckoutCanceled EventType = "checkout.canceled"
	EventCheckoutExpired  EventType = "checkout.expired"
)

// IsCheckout reports whether the event carries a checkout in Data.
func (t EventType) IsCheckout() bool {
	return strings.HasPrefix(string(t), "checkout.")
}

// Event is a decoded webhook delivery.
type Event struct {
	ID        string            `json:"id"`
	Entity    string            `json:"entity"`
	Livemode  chargily.FlexBool `json:"livemode"`
	Type      EventType         `json:"type"`
	Data      json.RawMessage   `json:"data"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
}

// ErrNotCheckoutEvent is returned by Event.Checkout for non-checkout events.
var ErrNotCheckoutEvent = errors.New("webhook event does not carry a checkout")

// ParseEvent decodes a delivery body. It does not verify the signature.
func ParseEvent(payload []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	if strings.TrimSpace(evt.ID) == "" {
		return nil, errors.New("decode webhook event: missing id")
	}
	if strings.TrimSpace(string(evt.Type)) == "" {
		return nil, errors.New("decode webhook event: missing type")
	}
	return &evt, nil
}

// ConstructEvent verifies signature over payload and then decodes it.
// Verification errors are returned unchanged so callers can match them
// with errors.Is.
func ConstructEvent(payload []byte, signature, secretKey string) (*Event, error) {
	if err := VerifySignature(payload, signature, secretKey); err != nil {
		return nil, err
	}
	return ParseEvent(payload)
}

// Checkout decodes Data as a checkout.
func (e *Event) Checkout() (*chargily.Checkout, error) {
	if e == nil || !e.Type.IsCheckout() {
		return nil, ErrNotCheckoutEvent
	}
	var chk chargily.Checkout
	if err := json.Unmarshal(e.Data, &chk); err != nil {
		return nil, fmt.Errorf("decode checkout from event %s: %w", e.ID, err)
	}
	return &chk, nil
}
