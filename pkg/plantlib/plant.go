// Package plantlib provides the core data model for tracked plants and the
// pure schedule evaluation logic shared by the daemon and its clients.
package plantlib

import (
	"sort"
	"time"
)

// Plant is a single tracked plant. The canonical copy lives in the remote
// store; instances held by the daemon are a cache refreshed by the realtime
// feed. JSON tags match the remote table columns.
type Plant struct {
	Id               string     `json:"id"`
	UserId           string     `json:"user_id,omitempty"`
	Name             string     `json:"name"`
	Species          string     `json:"species,omitempty"`
	ImageURL         string     `json:"image_url,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	WateringSchedule []string   `json:"watering_schedule"`
	NeedsWater       bool       `json:"needs_water"`
	LastWateredAt    *time.Time `json:"last_watered_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Clone returns a deep copy of the plant.
func (p *Plant) Clone() *Plant {
	c := *p
	if p.WateringSchedule != nil {
		c.WateringSchedule = append([]string(nil), p.WateringSchedule...)
	}
	if p.LastWateredAt != nil {
		t := *p.LastWateredAt
		c.LastWateredAt = &t
	}
	return &c
}

// ApplyFields merges a column-keyed field map into the plant. Keys use the
// same snake_case names as the JSON tags, so the same map can be sent as a
// remote update body and applied to the local cache. Unknown keys are
// ignored.
func (p *Plant) ApplyFields(fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "name":
			if s, ok := v.(string); ok {
				p.Name = s
			}
		case "species":
			if s, ok := v.(string); ok {
				p.Species = s
			}
		case "image_url":
			if s, ok := v.(string); ok {
				p.ImageURL = s
			}
		case "notes":
			if s, ok := v.(string); ok {
				p.Notes = s
			}
		case "needs_water":
			if b, ok := v.(bool); ok {
				p.NeedsWater = b
			}
		case "watering_schedule":
			switch sched := v.(type) {
			case []string:
				p.WateringSchedule = append([]string(nil), sched...)
			case []any:
				entries := make([]string, 0, len(sched))
				for _, e := range sched {
					if s, ok := e.(string); ok {
						entries = append(entries, s)
					}
				}
				p.WateringSchedule = entries
			}
		case "last_watered_at":
			switch ts := v.(type) {
			case *time.Time:
				p.LastWateredAt = ts
			case time.Time:
				t := ts
				p.LastWateredAt = &t
			case string:
				if t, err := time.Parse(time.RFC3339, ts); err == nil {
					p.LastWateredAt = &t
				}
			}
		}
	}
}

// PlantSlice implements sort.Interface ordering plants by creation time,
// newest first, matching the remote store's list order.
type PlantSlice []*Plant

func (s PlantSlice) Len() int      { return len(s) }
func (s PlantSlice) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s PlantSlice) Less(i, j int) bool {
	return s[i].CreatedAt.After(s[j].CreatedAt)
}

var _ sort.Interface = (PlantSlice)(nil)
