package common

import (
	"time"

	"github.com/plantd/plantd/pkg/plantlib"
)

type InputPlantId struct {
	PlantId string `json:"plant_id"`
}

type AddPlantParams struct {
	Name             string   `json:"name"`
	Species          string   `json:"species,omitempty"`
	ImageURL         string   `json:"image_url,omitempty"`
	Notes            string   `json:"notes,omitempty"`
	WateringSchedule []string `json:"watering_schedule,omitempty"`
}

type PlantResponse struct {
	Plant *plantlib.Plant `json:"plant"`
}

type ListParams struct {
	// NeedsWaterOnly restricts the listing to plants awaiting water.
	NeedsWaterOnly bool `json:"needs_water_only,omitempty"`
}

type ListResponse struct {
	Items []*plantlib.Plant `json:"items"`
}

type WaterParams struct {
	PlantId string `json:"plant_id"`
}

type ScheduleParams struct {
	PlantId  string   `json:"plant_id"`
	Schedule []string `json:"schedule"`
}

type FocusParams struct {
	PlantId string `json:"plant_id"`
}

type UpdatePlantParams struct {
	PlantId string         `json:"plant_id"`
	Fields  map[string]any `json:"fields"`
}

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserId string `json:"user_id"`
	Email  string `json:"email"`
	Plants int    `json:"plants"`
}

type StatusResponse struct {
	SessionActive bool      `json:"session_active"`
	PollerArmed   bool      `json:"poller_armed"`
	Plants        int       `json:"plants"`
	FocusedId     string    `json:"focused_id,omitempty"`
	LastCatchUp   time.Time `json:"last_catch_up,omitempty"`
	LastTick      time.Time `json:"last_tick,omitempty"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

// NeedsWaterUpdate is pushed to attached clients when the poller flags a
// plant.
type NeedsWaterUpdate struct {
	Plant *plantlib.Plant `json:"plant"`
}

// PlantUpdate is pushed when a plant is created or changed.
type PlantUpdate struct {
	Plant *plantlib.Plant `json:"plant"`
}

// RemovedUpdate is pushed when a plant is deleted.
type RemovedUpdate struct {
	PlantId string `json:"plant_id"`
}

// SessionUpdate is pushed on login and logout.
type SessionUpdate struct {
	Active bool   `json:"active"`
	UserId string `json:"user_id,omitempty"`
}
