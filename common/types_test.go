package common

import (
	"encoding/json"
	"testing"

	"github.com/plantd/plantd/pkg/plantlib"
)

func TestAddPlantParamsJSON(t *testing.T) {
	p := AddPlantParams{
		Name:             "Fern",
		Species:          "Nephrolepis exaltata",
		WateringSchedule: []string{"08:00", "18:30"},
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out AddPlantParams
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != p.Name || len(out.WateringSchedule) != 2 {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}

func TestListResponseOmitsNothingForFlaggedPlants(t *testing.T) {
	r := ListResponse{Items: []*plantlib.Plant{{Id: "p1", Name: "Fern", NeedsWater: true}}}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out ListResponse
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out.Items) != 1 || !out.Items[0].NeedsWater {
		t.Fatalf("unexpected round trip: %+v", out)
	}
}
