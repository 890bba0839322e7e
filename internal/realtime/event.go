// Package realtime subscribes to the plant store's change feed over a
// WebSocket and delivers typed change events to the session engine.
// Delivery from the store is at-least-once; consumers must tolerate
// duplicate insert and update events for the same id.
package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/plantd/plantd/pkg/plantlib"
)

// EventKind tags a change event.
type EventKind string

const (
	EventInsert EventKind = "INSERT"
	EventUpdate EventKind = "UPDATE"
	EventDelete EventKind = "DELETE"
)

// ChangeEvent is one mutation observed on the remote plants table. Insert
// and Update carry the new row snapshot in Record; Delete carries the old
// row in OldRecord.
type ChangeEvent struct {
	Kind      EventKind       `json:"kind"`
	Record    *plantlib.Plant `json:"record,omitempty"`
	OldRecord *plantlib.Plant `json:"old_record,omitempty"`
}

// envelope is the wire frame around feed messages.
type envelope struct {
	Event string `json:"event"`
	ChangeEvent
}

const (
	frameChange    = "change"
	frameHeartbeat = "heartbeat"
)

// decodeFrame parses a raw feed frame. It returns (nil, nil) for heartbeat
// frames and an error for frames that are not valid feed messages.
func decodeFrame(data []byte) (*ChangeEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("error: malformed feed frame: %w", err)
	}
	switch env.Event {
	case frameHeartbeat:
		return nil, nil
	case frameChange:
	default:
		return nil, fmt.Errorf("error: unknown feed frame %q", env.Event)
	}
	switch env.Kind {
	case EventInsert, EventUpdate:
		if env.Record == nil {
			return nil, fmt.Errorf("error: %s event without record", env.Kind)
		}
	case EventDelete:
		if env.OldRecord == nil {
			return nil, fmt.Errorf("error: delete event without old record")
		}
	default:
		return nil, fmt.Errorf("error: unknown event kind %q", env.Kind)
	}
	ev := env.ChangeEvent
	return &ev, nil
}
