package publishers

import (
	"encoding/json"
	"time"

	"github.com/Adda-Baaj/chargily-pay/pkg/webhook"
)

// Event is the envelope forwarded downstream for each verified delivery.
// Payload holds the exact bytes the gateway signed.
type Event struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	Livemode   bool            `json:"livemode"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

// NewEvent builds the forwarded envelope for a verified webhook event.
func NewEvent(evt *webhook.Event, raw []byte) Event {
	out := Event{
		Payload:    append(json.RawMessage(nil), raw...),
		ReceivedAt: time.Now().UTC(),
	}
	if evt != nil {
		out.EventID = evt.ID
		out.Type = string(evt.Type)
		out.Livemode = bool(evt.Livemode)
	}
	return out
}

// attributes returns the routing attributes queue/topic sinks attach to messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{}
	if e.EventID != "" {
		attrs["event_id"] = e.EventID
	}
	if e.Type != "" {
		attrs["event_type"] = e.Type
	}
	return attrs
}
