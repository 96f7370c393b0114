package realtime

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Event names on the live-update channel.
const (
	EventRequestProducts = "requestProducts"
	EventUpdateProducts  = "updateProducts"
	EventAddProduct      = "addProduct"
	EventProductAdded    = "productAdded"
	EventDeleteProduct   = "deleteProduct"
	EventProductDeleted  = "productDeleted"
	EventError           = "error"
)

// Message is one frame on the channel, in both directions.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type errorPayload struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(Message{Event: event, Data: raw})
}

// decodeID accepts a product id sent either as a JSON string or number.
func decodeID(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("invalid product id: %w", err)
	}
	switch id := v.(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("invalid product id")
}
