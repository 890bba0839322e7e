package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plantd/plantd/pkg/plantlib"
)

func TestListPlants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/plants" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("order"); got != "created_at.desc" {
			t.Errorf("order = %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("apikey header = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		json.NewEncoder(w).Encode([]*plantlib.Plant{
			{Id: "p1", Name: "Monstera", CreatedAt: time.Now()},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "anon-key")
	c.SetToken("tok")
	plants, err := c.ListPlants(context.Background())
	if err != nil {
		t.Fatalf("ListPlants: %v", err)
	}
	if len(plants) != 1 || plants[0].Id != "p1" {
		t.Errorf("plants = %v", plants)
	}
}

func TestInsertPlantReturnsStoredRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer header = %q", got)
		}
		var p plantlib.Plant
		json.NewDecoder(r.Body).Decode(&p)
		p.Id = "assigned-id"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]*plantlib.Plant{&p})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "k")
	got, err := c.InsertPlant(context.Background(), &plantlib.Plant{Name: "Ficus"})
	if err != nil {
		t.Fatalf("InsertPlant: %v", err)
	}
	if got.Id != "assigned-id" || got.Name != "Ficus" {
		t.Errorf("returned row = %+v", got)
	}
}

func TestUpdatePlantSendsFieldMap(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.p1" {
			t.Errorf("id filter = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "k")
	err := c.UpdatePlant(context.Background(), "p1", map[string]any{"needs_water": true})
	if err != nil {
		t.Fatalf("UpdatePlant: %v", err)
	}
	if v, ok := gotBody["needs_water"].(bool); !ok || !v {
		t.Errorf("body = %v", gotBody)
	}
}

func TestDeletePlant(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "k")
	if err := c.DeletePlant(context.Background(), "p1"); err != nil {
		t.Fatalf("DeletePlant: %v", err)
	}
	if !called {
		t.Error("server not called")
	}
}

func TestStoreErrorSurfacesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "JWT expired"})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "k")
	_, err := c.ListPlants(context.Background())
	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StoreError, got %v", err)
	}
	if se.Status != http.StatusUnauthorized || se.Message != "JWT expired" {
		t.Errorf("StoreError = %+v", se)
	}
}

func TestSignIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("grant_type = %q", got)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "me@example.com" {
			t.Errorf("email = %q", body["email"])
		}
		json.NewEncoder(w).Encode(Session{AccessToken: "tok", UserId: "u1"})
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, "k")
	s, err := c.SignIn(context.Background(), "me@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.AccessToken != "tok" || s.UserId != "u1" {
		t.Errorf("session = %+v", s)
	}
}
