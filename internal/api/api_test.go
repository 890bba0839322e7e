package api

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"

	"github.com/spf13/afero"

	"github.com/plantd/plantd/common"
	"github.com/plantd/plantd/internal/engine"
	"github.com/plantd/plantd/internal/remote"
	"github.com/plantd/plantd/pkg/credman"
	"github.com/plantd/plantd/pkg/plantlib"
)

type fakeEngine struct {
	plants      []*plantlib.Plant
	sessionOn   bool
	watered     []string
	lastAdded   *plantlib.Plant
	startErr    error
	focusedWith string
}

func (e *fakeEngine) StartSession(context.Context) error {
	e.sessionOn = true
	return e.startErr
}

func (e *fakeEngine) StopSession() error {
	e.sessionOn = false
	return nil
}

func (e *fakeEngine) Snapshot() ([]*plantlib.Plant, error) { return e.plants, nil }

func (e *fakeEngine) Get(id string) (*plantlib.Plant, error) {
	for _, p := range e.plants {
		if p.Id == id {
			return p, nil
		}
	}
	return nil, engine.ErrUnknownPlant
}

func (e *fakeEngine) Focus(id string) error {
	e.focusedWith = id
	return nil
}

func (e *fakeEngine) Status() (engine.Status, error) {
	return engine.Status{SessionActive: e.sessionOn, Plants: len(e.plants)}, nil
}

func (e *fakeEngine) AddPlant(_ context.Context, p *plantlib.Plant) (*plantlib.Plant, error) {
	p.Id = "assigned"
	e.lastAdded = p
	e.plants = append(e.plants, p)
	return p, nil
}

func (e *fakeEngine) RemovePlant(_ context.Context, id string) error {
	_, err := e.Get(id)
	return err
}

func (e *fakeEngine) Water(_ context.Context, id string) (*plantlib.Plant, error) {
	p, err := e.Get(id)
	if err != nil {
		return nil, err
	}
	e.watered = append(e.watered, id)
	return p, nil
}

func (e *fakeEngine) UpdatePlant(_ context.Context, id string, _ map[string]any) (*plantlib.Plant, error) {
	return e.Get(id)
}

func (e *fakeEngine) SetSchedule(_ context.Context, id string, _ []string) (*plantlib.Plant, error) {
	return e.Get(id)
}

type fakeAuth struct {
	token    string
	signIns  int
	failNext bool
}

func (a *fakeAuth) SignIn(_ context.Context, email, password string) (*remote.Session, error) {
	a.signIns++
	if a.failNext {
		return nil, &remote.StoreError{Status: 400, Message: "Invalid login credentials"}
	}
	return &remote.Session{AccessToken: "tok", RefreshToken: "ref", UserId: "u1"}, nil
}

func (a *fakeAuth) SetToken(token string) { a.token = token }

func newTestApi(t *testing.T, eng *fakeEngine, auth *fakeAuth) *Api {
	t.Helper()
	key := make([]byte, 32)
	sessions := credman.NewSessionManager(afero.NewMemMapFs(), "/data/session", key)
	return NewApi(log.New(os.Stderr, "test ", 0), eng, auth, sessions, nil, "test")
}

func TestLoginSavesSessionAndStartsEngine(t *testing.T) {
	eng := &fakeEngine{plants: []*plantlib.Plant{{Id: "p1", Name: "Fern"}}}
	auth := &fakeAuth{}
	a := newTestApi(t, eng, auth)

	resp, err := a.Login(context.Background(), "gardener@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.UserId != "u1" || resp.Plants != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !eng.sessionOn {
		t.Fatal("engine session not started")
	}
	if auth.token != "tok" {
		t.Fatalf("token not set on store client: %q", auth.token)
	}
	saved, err := a.sessions.Load()
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if saved.UserId != "u1" || saved.Email != "gardener@example.com" {
		t.Fatalf("unexpected saved session: %+v", saved)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	eng := &fakeEngine{}
	auth := &fakeAuth{failNext: true}
	a := newTestApi(t, eng, auth)

	if _, err := a.Login(context.Background(), "x@y.z", "bad"); err == nil {
		t.Fatal("Login succeeded with bad credentials")
	}
	if eng.sessionOn {
		t.Fatal("engine session started despite failed sign-in")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	eng := &fakeEngine{}
	auth := &fakeAuth{}
	a := newTestApi(t, eng, auth)

	if _, err := a.Login(context.Background(), "x@y.z", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if eng.sessionOn {
		t.Fatal("engine session still on")
	}
	if auth.token != "" {
		t.Fatalf("token not cleared: %q", auth.token)
	}
	if _, err := a.sessions.Load(); err == nil {
		t.Fatal("session file survived logout")
	}
}

func TestRestoreUsesSavedSession(t *testing.T) {
	eng := &fakeEngine{}
	auth := &fakeAuth{}
	a := newTestApi(t, eng, auth)
	if err := a.sessions.Save(&credman.Session{AccessToken: "saved-tok", UserId: "u2"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := a.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if auth.token != "saved-tok" {
		t.Fatalf("token = %q, want saved-tok", auth.token)
	}
	if !eng.sessionOn {
		t.Fatal("engine session not restored")
	}
	if auth.signIns != 0 {
		t.Fatal("restore must not hit the auth endpoint")
	}
}

func TestListNeedsWaterOnly(t *testing.T) {
	eng := &fakeEngine{plants: []*plantlib.Plant{
		{Id: "p1", NeedsWater: true},
		{Id: "p2"},
	}}
	a := newTestApi(t, eng, &fakeAuth{})

	all, err := a.List(false)
	if err != nil || len(all) != 2 {
		t.Fatalf("List(false) = %d plants, err %v", len(all), err)
	}
	thirsty, err := a.List(true)
	if err != nil || len(thirsty) != 1 || thirsty[0].Id != "p1" {
		t.Fatalf("List(true) = %v, err %v", thirsty, err)
	}
}

func TestWaterHandler(t *testing.T) {
	eng := &fakeEngine{plants: []*plantlib.Plant{{Id: "p1", Name: "Fern", NeedsWater: true}}}
	a := newTestApi(t, eng, &fakeAuth{})

	body, _ := json.Marshal(common.WaterParams{PlantId: "p1"})
	utype, msg, err := a.waterHandler(nil, nil, body)
	if err != nil {
		t.Fatalf("waterHandler: %v", err)
	}
	if utype != common.UPDATE_WATER {
		t.Fatalf("update type = %s", utype)
	}
	resp, ok := msg.(*common.PlantResponse)
	if !ok || resp.Plant.Id != "p1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(eng.watered) != 1 {
		t.Fatal("engine not asked to water")
	}
}

func TestWaterHandlerRequiresId(t *testing.T) {
	a := newTestApi(t, &fakeEngine{}, &fakeAuth{})
	if _, _, err := a.waterHandler(nil, nil, json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for missing plant_id")
	}
}

func TestAddHandlerAssignsOwner(t *testing.T) {
	eng := &fakeEngine{}
	auth := &fakeAuth{}
	a := newTestApi(t, eng, auth)
	if _, err := a.Login(context.Background(), "x@y.z", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	body, _ := json.Marshal(common.AddPlantParams{Name: "Basil", WateringSchedule: []string{"07:30"}})
	_, msg, err := a.addHandler(nil, nil, body)
	if err != nil {
		t.Fatalf("addHandler: %v", err)
	}
	resp := msg.(*common.PlantResponse)
	if resp.Plant.Name != "Basil" {
		t.Fatalf("unexpected plant: %+v", resp.Plant)
	}
	if eng.lastAdded.UserId != "u1" {
		t.Fatalf("owner not set: %q", eng.lastAdded.UserId)
	}
}

func TestVersionHandler(t *testing.T) {
	a := newTestApi(t, &fakeEngine{}, &fakeAuth{})
	_, msg, err := a.versionHandler(nil, nil, nil)
	if err != nil {
		t.Fatalf("versionHandler: %v", err)
	}
	if msg.(*common.VersionResponse).Version != "test" {
		t.Fatalf("unexpected version: %+v", msg)
	}
}
