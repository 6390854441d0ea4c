package ingest

import (
	"encoding/json"
	"time"

	"github.com/vnykmshr/goadmit/pkg/common/errors"
)

// Event is one unit of ingested data. The payload stays opaque to the
// pipeline; only identity and arrival metadata are interpreted.
type Event struct {
	// ID uniquely identifies the event. The handler assigns one when
	// the source did not.
	ID string `json:"id,omitempty"`

	// Source names the producer of the event.
	Source string `json:"source,omitempty"`

	// Data is the event payload.
	Data json.RawMessage `json:"data"`

	// ReceivedAt is when the event entered the pipeline. Zero values
	// are stamped at ingest time.
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

// Request is the envelope accepted by the handler.
type Request struct {
	RequestID string  `json:"request_id,omitempty"`
	Source    string  `json:"source,omitempty"`
	Events    []Event `json:"events"`
}

// Response reports the outcome of one ingest request.
type Response struct {
	RequestID string        `json:"request_id"`
	Ingested  int           `json:"ingested"`
	Elapsed   time.Duration `json:"elapsed"`
}

// ParseRequest decodes and validates a request envelope.
func ParseRequest(payload []byte) (*Request, error) {
	if len(payload) == 0 {
		return nil, errors.NewValidationError("ingest", "payload", "", "payload must not be empty").
			WithHint("send a JSON request envelope")
	}

	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, errors.NewValidationError("ingest", "payload", err.Error(), "payload is not valid JSON").
			WithHint("send a JSON request envelope")
	}

	if len(req.Events) == 0 {
		return nil, errors.NewValidationError("ingest", "events", 0, "request carries no events").
			WithHint("include at least one event")
	}

	return &req, nil
}
