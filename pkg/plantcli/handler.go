package plantcli

import (
	"encoding/json"

	"github.com/plantd/plantd/common"
)

// Handler defines the interface for processing daemon push updates.
// Implementations receive raw JSON messages and are responsible for
// unmarshaling and processing them appropriately.
type Handler interface {
	Handle(json.RawMessage) error
}

// NeedsWaterHandler processes needs-water push updates from the daemon.
type NeedsWaterHandler struct {
	Callback func(*common.NeedsWaterUpdate) error
}

func (h *NeedsWaterHandler) Handle(m json.RawMessage) error {
	var v common.NeedsWaterUpdate
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	return h.Callback(&v)
}

// PlantHandler processes plant create/change push updates.
type PlantHandler struct {
	Callback func(*common.PlantUpdate) error
}

func (h *PlantHandler) Handle(m json.RawMessage) error {
	var v common.PlantUpdate
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	return h.Callback(&v)
}

// RemovedHandler processes plant removal push updates.
type RemovedHandler struct {
	Callback func(*common.RemovedUpdate) error
}

func (h *RemovedHandler) Handle(m json.RawMessage) error {
	var v common.RemovedUpdate
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	return h.Callback(&v)
}

// SessionHandler processes session state push updates.
type SessionHandler struct {
	Callback func(*common.SessionUpdate) error
}

func (h *SessionHandler) Handle(m json.RawMessage) error {
	var v common.SessionUpdate
	if err := json.Unmarshal(m, &v); err != nil {
		return err
	}
	return h.Callback(&v)
}
