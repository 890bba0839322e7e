package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/plantd/plantd/internal/alert"
	"github.com/plantd/plantd/internal/realtime"
	"github.com/plantd/plantd/internal/reconcile"
	"github.com/plantd/plantd/pkg/logger"
	"github.com/plantd/plantd/pkg/plantlib"
)

type fakeStore struct {
	mu      sync.Mutex
	plants  []*plantlib.Plant
	listErr error
	updates []storeUpdate
	updated chan storeUpdate
	nextId  int
}

type storeUpdate struct {
	id     string
	fields map[string]any
}

func newFakeStore(plants ...*plantlib.Plant) *fakeStore {
	return &fakeStore{plants: plants, updated: make(chan storeUpdate, 16)}
}

func (s *fakeStore) ListPlants(context.Context) ([]*plantlib.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*plantlib.Plant, len(s.plants))
	for i, p := range s.plants {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *fakeStore) InsertPlant(_ context.Context, p *plantlib.Plant) (*plantlib.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := p.Clone()
	s.nextId++
	stored.Id = "srv-" + string(rune('0'+s.nextId))
	s.plants = append(s.plants, stored)
	return stored.Clone(), nil
}

func (s *fakeStore) UpdatePlant(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := storeUpdate{id: id, fields: fields}
	s.updates = append(s.updates, u)
	select {
	case s.updated <- u:
	default:
	}
	return nil
}

func (s *fakeStore) DeletePlant(_ context.Context, id string) error { return nil }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type recordingNotifier struct {
	needsWater chan *plantlib.Plant
	changed    chan *plantlib.Plant
	removed    chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		needsWater: make(chan *plantlib.Plant, 16),
		changed:    make(chan *plantlib.Plant, 16),
		removed:    make(chan string, 16),
	}
}

func (n *recordingNotifier) PlantNeedsWater(p *plantlib.Plant) { n.needsWater <- p }
func (n *recordingNotifier) PlantChanged(p *plantlib.Plant)    { n.changed <- p }
func (n *recordingNotifier) PlantRemoved(id string)            { n.removed <- id }

type memLedger struct {
	mu      sync.Mutex
	handled map[string]bool
}

func newMemLedger() *memLedger { return &memLedger{handled: make(map[string]bool)} }

func (l *memLedger) IsHandled(_ context.Context, plantID, tod, day string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handled[plantID+"|"+tod+"|"+day], nil
}

func (l *memLedger) MarkHandled(_ context.Context, plantID, tod, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handled[plantID+"|"+tod+"|"+day] = true
	return nil
}

func (l *memLedger) PurgeOlderThan(context.Context, string) (int64, error) { return 0, nil }

func testPlant(id, name string, schedule ...string) *plantlib.Plant {
	return &plantlib.Plant{
		Id:               id,
		Name:             name,
		WateringSchedule: schedule,
		CreatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type harness struct {
	engine *Engine
	store  *fakeStore
	clock  *fakeClock
	alerts *alert.MockSink
	notify *recordingNotifier
	feed   chan realtime.ChangeEvent
	cancel context.CancelFunc
}

func newHarness(t *testing.T, store *fakeStore) *harness {
	t.Helper()
	h := &harness{
		store:  store,
		clock:  &fakeClock{now: time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC)},
		alerts: &alert.MockSink{},
		notify: newRecordingNotifier(),
		feed:   make(chan realtime.ChangeEvent, 16),
	}
	rec := reconcile.New(newMemLedger(), h.alerts, logger.NewNopLogger())
	h.engine = New(Options{
		Store:      store,
		Reconciler: rec,
		Feed: func(ctx context.Context) <-chan realtime.ChangeEvent {
			out := make(chan realtime.ChangeEvent)
			go func() {
				defer close(out)
				for {
					select {
					case <-ctx.Done():
						return
					case ev := <-h.feed:
						select {
						case out <- ev:
						case <-ctx.Done():
							return
						}
					}
				}
			}()
			return out
		},
		Clock:        h.clock,
		Notifier:     h.notify,
		Log:          logger.NewNopLogger(),
		PollInterval: 20 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.engine.Run(ctx)
	t.Cleanup(cancel)
	return h
}

// quiesce waits for the engine loop to drain any event already applied.
func (h *harness) quiesce(t *testing.T) {
	t.Helper()
	if _, err := h.engine.Status(); err != nil {
		t.Fatalf("engine stopped: %v", err)
	}
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestStartSessionCatchUpFlagsWithoutAlerts(t *testing.T) {
	store := newFakeStore(testPlant("p1", "Fern", "08:00"))
	h := newHarness(t, store)

	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if got := h.alerts.Count(); got != 0 {
		t.Fatalf("catch-up raised %d alerts, want 0", got)
	}
	p, err := h.engine.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !p.NeedsWater {
		t.Fatal("plant not flagged after catch-up")
	}
	u := waitFor(t, store.updated, "remote update")
	if u.id != "p1" || u.fields["needs_water"] != true {
		t.Fatalf("unexpected remote update %+v", u)
	}
	st, _ := h.engine.Status()
	if !st.SessionActive || !st.PollerArmed {
		t.Fatalf("status = %+v, want active and armed", st)
	}
}

func TestStartSessionFetchFailureKeepsPollerDisarmed(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("store down")
	h := newHarness(t, store)

	if err := h.engine.StartSession(context.Background()); err == nil {
		t.Fatal("StartSession succeeded with failing fetch")
	}
	st, _ := h.engine.Status()
	if !st.SessionActive {
		t.Fatal("session not active after failed catch-up")
	}
	if st.PollerArmed {
		t.Fatal("poller armed before a catch-up pass completed")
	}
}

func TestLivePollerAlertsOnce(t *testing.T) {
	store := newFakeStore(testPlant("p1", "Monstera", "09:00"))
	h := newHarness(t, store)
	h.clock.set(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	// Cross the scheduled instant and let the poller fire.
	h.clock.set(time.Date(2026, 3, 2, 9, 0, 30, 0, time.UTC))
	p := waitFor(t, h.notify.needsWater, "needs-water push")
	if p.Id != "p1" || !p.NeedsWater {
		t.Fatalf("unexpected push %+v", p)
	}
	if got := h.alerts.Count(); got != 1 {
		t.Fatalf("got %d alerts, want 1", got)
	}

	// Further ticks at the same instant must stay silent.
	time.Sleep(100 * time.Millisecond)
	h.quiesce(t)
	if got := h.alerts.Count(); got != 1 {
		t.Fatalf("got %d alerts after extra ticks, want 1", got)
	}
}

func TestFeedInsertDedupsOwnEcho(t *testing.T) {
	store := newFakeStore()
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	added, err := h.engine.AddPlant(context.Background(), testPlant("", "Basil", "07:30"))
	if err != nil {
		t.Fatalf("AddPlant: %v", err)
	}
	waitFor(t, h.notify.changed, "insert push")

	// The feed echoes our own insert; it must not produce a duplicate.
	h.feed <- realtime.ChangeEvent{Kind: realtime.EventInsert, Record: added.Clone()}
	h.quiesce(t)
	plants, err := h.engine.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(plants) != 1 {
		t.Fatalf("got %d plants after echo, want 1", len(plants))
	}
}

func TestFeedDeleteClearsFocus(t *testing.T) {
	store := newFakeStore(testPlant("p1", "Cactus"))
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := h.engine.Focus("p1"); err != nil {
		t.Fatalf("Focus: %v", err)
	}

	h.feed <- realtime.ChangeEvent{Kind: realtime.EventDelete, OldRecord: testPlant("p1", "Cactus")}
	id := waitFor(t, h.notify.removed, "removed push")
	if id != "p1" {
		t.Fatalf("removed %q, want p1", id)
	}
	st, _ := h.engine.Status()
	if st.FocusedId != "" {
		t.Fatalf("focus %q not cleared by remote delete", st.FocusedId)
	}
	if st.Plants != 0 {
		t.Fatalf("got %d plants, want 0", st.Plants)
	}
}

func TestFeedUpdateReplacesSnapshot(t *testing.T) {
	store := newFakeStore(testPlant("p1", "Fern"))
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	renamed := testPlant("p1", "Boston Fern", "10:00")
	h.feed <- realtime.ChangeEvent{Kind: realtime.EventUpdate, Record: renamed}
	waitFor(t, h.notify.changed, "update push")
	p, err := h.engine.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "Boston Fern" || len(p.WateringSchedule) != 1 {
		t.Fatalf("remote update not applied: %+v", p)
	}
}

func TestFeedOutlivesStartSessionContext(t *testing.T) {
	// RPC-initiated logins pass a per-request context into StartSession
	// that is cancelled as soon as the call returns. The feed subscription
	// must be bound to the engine's lifetime, not to that context.
	store := newFakeStore(testPlant("p1", "Monstera"))
	h := newHarness(t, store)

	loginCtx, loginCancel := context.WithCancel(context.Background())
	if err := h.engine.StartSession(loginCtx); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	loginCancel()

	renamed := testPlant("p1", "Monty", "10:00")
	h.feed <- realtime.ChangeEvent{Kind: realtime.EventUpdate, Record: renamed}
	waitFor(t, h.notify.changed, "update push after login ctx cancelled")
	p, err := h.engine.Get("p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "Monty" {
		t.Fatalf("feed event not applied after login ctx cancelled: %+v", p)
	}
}

func TestStopSessionDropsState(t *testing.T) {
	store := newFakeStore(testPlant("p1", "Fern", "08:00"))
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := h.engine.StopSession(); err != nil {
		t.Fatalf("StopSession: %v", err)
	}
	st, _ := h.engine.Status()
	if st.SessionActive || st.PollerArmed || st.Plants != 0 {
		t.Fatalf("state survived logout: %+v", st)
	}
	if _, err := h.engine.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := h.engine.Water(context.Background(), "p1"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Water after logout = %v, want ErrNoSession", err)
	}
}

func TestWaterClearsFlagAndStampsTime(t *testing.T) {
	flagged := testPlant("p1", "Fern", "08:00")
	flagged.NeedsWater = true
	store := newFakeStore(flagged)
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	p, err := h.engine.Water(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Water: %v", err)
	}
	if p.NeedsWater {
		t.Fatal("needs-water flag not cleared")
	}
	if p.LastWateredAt == nil {
		t.Fatal("watering timestamp not set")
	}
	u := waitFor(t, store.updated, "remote update")
	if u.id != "p1" || u.fields["needs_water"] != false {
		t.Fatalf("unexpected remote update %+v", u)
	}
}

func TestSetScheduleRejectsMalformedEntries(t *testing.T) {
	store := newFakeStore(testPlant("p1", "Fern"))
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := h.engine.SetSchedule(context.Background(), "p1", []string{"8:00", "25:00"}); err == nil {
		t.Fatal("SetSchedule accepted an out-of-range entry")
	}
	p, _ := h.engine.Get("p1")
	if len(p.WateringSchedule) != 0 {
		t.Fatal("schedule changed despite validation failure")
	}

	if _, err := h.engine.SetSchedule(context.Background(), "p1", []string{"8:00", "18:30"}); err != nil {
		t.Fatalf("SetSchedule: %v", err)
	}
}

func TestOperationsOnUnknownPlant(t *testing.T) {
	store := newFakeStore()
	h := newHarness(t, store)
	if err := h.engine.StartSession(context.Background()); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := h.engine.Get("ghost"); !errors.Is(err, ErrUnknownPlant) {
		t.Fatalf("Get = %v, want ErrUnknownPlant", err)
	}
	if err := h.engine.Focus("ghost"); !errors.Is(err, ErrUnknownPlant) {
		t.Fatalf("Focus = %v, want ErrUnknownPlant", err)
	}
	if _, err := h.engine.Water(context.Background(), "ghost"); !errors.Is(err, ErrUnknownPlant) {
		t.Fatalf("Water = %v, want ErrUnknownPlant", err)
	}
}
