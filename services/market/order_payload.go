package market

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/status-im/nft-market/services/seaport"
)

type OrderPayloadKind int

const (
	OrderPayloadAbsent OrderPayloadKind = iota
	// OrderPayloadObject is a JSON object, either the order itself or an
	// {"order": ...} envelope.
	OrderPayloadObject
	// OrderPayloadEncoded is a JSON string holding the encoded order.
	OrderPayloadEncoded
)

func (k OrderPayloadKind) String() string {
	switch k {
	case OrderPayloadObject:
		return "object"
	case OrderPayloadEncoded:
		return "encoded"
	}
	return "absent"
}

// OrderPayload is the stored order of a catalog entry, classified by how
// the backend delivered it.
type OrderPayload struct {
	Kind OrderPayloadKind
	Raw  json.RawMessage
}

func ClassifyOrderPayload(raw json.RawMessage) OrderPayload {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return OrderPayload{Kind: OrderPayloadAbsent}
	case trimmed[0] == '"':
		return OrderPayload{Kind: OrderPayloadEncoded, Raw: trimmed}
	}
	return OrderPayload{Kind: OrderPayloadObject, Raw: trimmed}
}

// NormalizeOrder turns any accepted payload shape into a fulfillable order.
// At most one {"order": ...} envelope is unwrapped. Undecodable strings
// yield ErrOrderParse, every other malformed shape ErrInvalidOrder.
func NormalizeOrder(payload OrderPayload) (*seaport.OrderWithCounter, error) {
	raw := payload.Raw
	switch payload.Kind {
	case OrderPayloadAbsent:
		return nil, ErrInvalidOrder
	case OrderPayloadEncoded:
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOrderParse, err)
		}
		if !json.Valid([]byte(encoded)) {
			return nil, ErrOrderParse
		}
		raw = json.RawMessage(encoded)
	}

	fields, ok := objectFields(raw)
	if !ok {
		return nil, ErrInvalidOrder
	}
	if inner, wrapped := fields["order"]; wrapped && present(inner) {
		raw = inner
		if fields, ok = objectFields(raw); !ok {
			return nil, ErrInvalidOrder
		}
	}
	if params, has := fields["parameters"]; !has || !present(params) {
		return nil, ErrInvalidOrder
	}

	order := new(seaport.OrderWithCounter)
	if err := json.Unmarshal(raw, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return order, nil
}

func objectFields(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// present mirrors a truthiness check: null, false, 0 and "" count as absent.
func present(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}
