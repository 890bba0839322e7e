// Package engine implements the per-daemon session engine: a single
// goroutine that owns the in-memory plant collection and multiplexes the
// three reconciliation drivers onto it — the periodic live poller, the
// one-shot catch-up pass at session start, and the realtime sync bridge
// folding in remote changes. Because all three run on one loop, the
// collection needs no locks and the poller structurally cannot observe an
// instant before the catch-up pass has marked it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/plantd/plantd/internal/realtime"
	"github.com/plantd/plantd/internal/reconcile"
	"github.com/plantd/plantd/pkg/logger"
	"github.com/plantd/plantd/pkg/plantlib"
)

// Store is the remote plant store consumed by the engine.
type Store interface {
	ListPlants(ctx context.Context) ([]*plantlib.Plant, error)
	InsertPlant(ctx context.Context, p *plantlib.Plant) (*plantlib.Plant, error)
	UpdatePlant(ctx context.Context, id string, fields map[string]any) error
	DeletePlant(ctx context.Context, id string) error
}

// FeedFactory opens a realtime change-feed subscription for one session.
// The returned channel must close when ctx is cancelled.
type FeedFactory func(ctx context.Context) <-chan realtime.ChangeEvent

// Clock abstracts wall-clock time so tests can pin the instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Notifier receives push events for attached clients. Implementations must
// not block; they are called from the engine loop.
type Notifier interface {
	// PlantNeedsWater fires for plants the live poller just flagged.
	PlantNeedsWater(p *plantlib.Plant)
	// PlantChanged fires for any other state change of a plant.
	PlantChanged(p *plantlib.Plant)
	// PlantRemoved fires when a plant is deleted.
	PlantRemoved(id string)
}

// NopNotifier discards all push events.
type NopNotifier struct{}

func (NopNotifier) PlantNeedsWater(*plantlib.Plant) {}
func (NopNotifier) PlantChanged(*plantlib.Plant)    {}
func (NopNotifier) PlantRemoved(string)             {}

// Status is a snapshot of the engine state for clients.
type Status struct {
	SessionActive bool      `json:"session_active"`
	PollerArmed   bool      `json:"poller_armed"`
	Plants        int       `json:"plants"`
	FocusedId     string    `json:"focused_id,omitempty"`
	LastCatchUp   time.Time `json:"last_catch_up,omitempty"`
	LastTick      time.Time `json:"last_tick,omitempty"`
}

// Sentinel errors for engine operations.
var (
	// ErrEngineStopped is returned when the engine loop is not running.
	ErrEngineStopped = errors.New("engine is not running")

	// ErrNoSession is returned for operations requiring an active session.
	ErrNoSession = errors.New("no active session")

	// ErrUnknownPlant is returned when an id matches no tracked plant.
	ErrUnknownPlant = errors.New("plant not found")
)

const (
	// DefaultPollInterval is the live poller period.
	DefaultPollInterval = 10 * time.Second

	catchUpRetryDelay  = 5 * time.Second
	maxRetryDelay      = 60 * time.Second
	remoteWriteTimeout = 15 * time.Second
)

// Options configures an Engine.
type Options struct {
	Store      Store
	Reconciler *reconcile.Reconciler
	Feed       FeedFactory
	Clock      Clock
	Notifier   Notifier
	Log        logger.Logger

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
}

// Engine is the session engine. Create with New, start with Run, interact
// through the exported methods; all of them are safe for concurrent use.
type Engine struct {
	store    Store
	rec      *reconcile.Reconciler
	feed     FeedFactory
	clock    Clock
	notifier Notifier
	log      logger.Logger
	interval time.Duration

	calls chan *call
	done  chan struct{}

	// Loop-owned state below; touched only from run().
	runCtx        context.Context
	plants        *plantlib.Collection
	focused       string
	sessionOn     bool
	catchupDone   bool
	lastCatchUp   time.Time
	lastTick      time.Time
	retryDelay    time.Duration
	sessionCancel context.CancelFunc

	ticker  *time.Ticker
	tickCh  <-chan time.Time
	feedCh  <-chan realtime.ChangeEvent
	retryCh <-chan time.Time
}

type call struct {
	fn   func()
	done chan struct{}
}

// New creates an engine. Run must be called before any other method is used.
func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Log == nil {
		opts.Log = logger.NewNopLogger()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Engine{
		store:    opts.Store,
		rec:      opts.Reconciler,
		feed:     opts.Feed,
		clock:    opts.Clock,
		notifier: opts.Notifier,
		log:      opts.Log,
		interval: opts.PollInterval,
		calls:    make(chan *call),
		done:     make(chan struct{}),
		plants:   plantlib.NewCollection(),
	}
}

// Run executes the engine loop until ctx is cancelled. It must be called
// exactly once.
func (e *Engine) Run(ctx context.Context) {
	e.runCtx = ctx
	defer close(e.done)
	defer e.stopSessionLocked()
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-e.calls:
			c.fn()
			close(c.done)

		case ev, ok := <-e.feedCh:
			if !ok {
				e.feedCh = nil
				continue
			}
			e.applyChange(ev)

		case <-e.tickCh:
			e.tick(ctx)

		case <-e.retryCh:
			e.retryCh = nil
			if e.sessionOn && !e.catchupDone {
				e.catchUp(ctx)
			}
		}
	}
}

// do runs fn on the engine loop and waits for it to finish.
func (e *Engine) do(fn func()) error {
	c := &call{fn: fn, done: make(chan struct{})}
	select {
	case e.calls <- c:
	case <-e.done:
		return ErrEngineStopped
	}
	select {
	case <-c.done:
	case <-e.done:
		return ErrEngineStopped
	}
	return nil
}

// StartSession brings the session up: it runs the catch-up pass against a
// fresh fetch and, once that pass completes, subscribes the realtime feed
// and arms the live poller. If the initial fetch fails the session stays up
// and the catch-up is retried with backoff; the poller stays disarmed until
// a pass succeeds.
func (e *Engine) StartSession(ctx context.Context) error {
	var catchUpErr error
	err := e.do(func() {
		if e.sessionOn {
			return
		}
		e.sessionOn = true
		e.retryDelay = catchUpRetryDelay
		catchUpErr = e.catchUp(ctx)
	})
	if err != nil {
		return err
	}
	return catchUpErr
}

// StopSession tears the session down: the feed subscription ends, the
// poller is disarmed and the local collection is dropped. In-flight remote
// writes are not cancelled; they complete or fail on their own.
func (e *Engine) StopSession() error {
	return e.do(e.stopSessionLocked)
}

// stopSessionLocked runs on the engine loop.
func (e *Engine) stopSessionLocked() {
	if !e.sessionOn {
		return
	}
	e.sessionOn = false
	e.catchupDone = false
	if e.sessionCancel != nil {
		e.sessionCancel()
		e.sessionCancel = nil
	}
	e.feedCh = nil
	e.retryCh = nil
	e.disarm()
	e.plants.Replace(nil)
	e.focused = ""
	e.log.Info("session stopped")
}

// Snapshot returns deep copies of all tracked plants, newest first.
func (e *Engine) Snapshot() ([]*plantlib.Plant, error) {
	var out []*plantlib.Plant
	err := e.do(func() { out = e.plants.Snapshot() })
	return out, err
}

// Get returns a copy of one plant.
func (e *Engine) Get(id string) (*plantlib.Plant, error) {
	var p *plantlib.Plant
	err := e.do(func() {
		if found := e.plants.Get(id); found != nil {
			p = found.Clone()
		}
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUnknownPlant
	}
	return p, nil
}

// Focus marks a plant as the currently viewed one. A remote delete of the
// focused plant clears the focus.
func (e *Engine) Focus(id string) error {
	var unknown bool
	err := e.do(func() {
		if id != "" && e.plants.Get(id) == nil {
			unknown = true
			return
		}
		e.focused = id
	})
	if err != nil {
		return err
	}
	if unknown {
		return ErrUnknownPlant
	}
	return nil
}

// Status reports the engine state.
func (e *Engine) Status() (Status, error) {
	var st Status
	err := e.do(func() {
		st = Status{
			SessionActive: e.sessionOn,
			PollerArmed:   e.ticker != nil,
			Plants:        e.plants.Len(),
			FocusedId:     e.focused,
			LastCatchUp:   e.lastCatchUp,
			LastTick:      e.lastTick,
		}
	})
	return st, err
}

// AddPlant inserts a plant into the remote store and the local collection.
// The stored row (with the server-assigned id) is returned. The feed echo of
// the insert is deduplicated by id when it arrives.
func (e *Engine) AddPlant(ctx context.Context, p *plantlib.Plant) (*plantlib.Plant, error) {
	if err := e.requireSession(); err != nil {
		return nil, err
	}
	for _, entry := range p.WateringSchedule {
		if _, err := plantlib.ParseTimeOfDay(entry); err != nil {
			return nil, err
		}
	}
	stored, err := e.store.InsertPlant(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error: failed to add plant: %w", err)
	}
	err = e.do(func() {
		if e.plants.Insert(stored.Clone()) {
			e.notifier.PlantChanged(stored.Clone())
			e.rearm()
		}
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// RemovePlant deletes a plant remotely and locally.
func (e *Engine) RemovePlant(ctx context.Context, id string) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	if err := e.store.DeletePlant(ctx, id); err != nil {
		return fmt.Errorf("error: failed to delete plant: %w", err)
	}
	return e.do(func() { e.removeLocked(id) })
}

// removeLocked runs on the engine loop.
func (e *Engine) removeLocked(id string) {
	if !e.plants.Remove(id) {
		return
	}
	if e.focused == id {
		e.focused = ""
	}
	e.notifier.PlantRemoved(id)
	e.rearm()
}

// Water marks a plant as watered: the needs-water flag clears and the
// watering timestamp is set, remotely and locally.
func (e *Engine) Water(ctx context.Context, id string) (*plantlib.Plant, error) {
	fields := map[string]any{
		"needs_water":     false,
		"last_watered_at": e.clock.Now().Format(time.RFC3339),
	}
	return e.updateFields(ctx, id, fields)
}

// SetSchedule replaces a plant's watering schedule. Every entry must be a
// valid "HH:MM" time of day.
func (e *Engine) SetSchedule(ctx context.Context, id string, entries []string) (*plantlib.Plant, error) {
	for _, entry := range entries {
		if _, err := plantlib.ParseTimeOfDay(entry); err != nil {
			return nil, err
		}
	}
	return e.updateFields(ctx, id, map[string]any{"watering_schedule": entries})
}

// UpdatePlant applies arbitrary field updates to a plant, remotely and
// locally.
func (e *Engine) UpdatePlant(ctx context.Context, id string, fields map[string]any) (*plantlib.Plant, error) {
	return e.updateFields(ctx, id, fields)
}

func (e *Engine) updateFields(ctx context.Context, id string, fields map[string]any) (*plantlib.Plant, error) {
	if err := e.requireSession(); err != nil {
		return nil, err
	}
	if err := e.store.UpdatePlant(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("error: failed to update plant: %w", err)
	}
	var updated *plantlib.Plant
	err := e.do(func() {
		if e.plants.MergeFields(id, fields) {
			updated = e.plants.Get(id).Clone()
			e.notifier.PlantChanged(updated.Clone())
			e.rearm()
		}
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUnknownPlant
	}
	return updated, nil
}

func (e *Engine) requireSession() error {
	var on bool
	if err := e.do(func() { on = e.sessionOn }); err != nil {
		return err
	}
	if !on {
		return ErrNoSession
	}
	return nil
}

// catchUp runs on the engine loop: fetch everything fresh, reconcile in
// catch-up mode (no alerts), replace the collection, then open the feed and
// arm the poller. On fetch failure a retry is scheduled with backoff and
// the poller stays disarmed. fetchCtx scopes the one-shot fetch only; the
// feed subscription outlives it, bound to the engine's own lifetime.
func (e *Engine) catchUp(fetchCtx context.Context) error {
	fetched, err := e.store.ListPlants(fetchCtx)
	if err != nil {
		e.log.Warning("catch-up fetch failed, retrying in %s: %v", e.retryDelay, err)
		e.retryCh = time.After(e.retryDelay)
		if e.retryDelay *= 2; e.retryDelay > maxRetryDelay {
			e.retryDelay = maxRetryDelay
		}
		return err
	}

	now := e.clock.Now()
	res := e.rec.Reconcile(fetchCtx, fetched, now, reconcile.CatchUp)
	e.plants.Replace(fetched)
	for _, m := range res.Mutations {
		e.plants.MergeFields(m.PlantID, m.Fields)
		e.dispatchRemote(m.PlantID, m.Fields)
	}
	for _, id := range res.Transitioned {
		if p := e.plants.Get(id); p != nil {
			e.notifier.PlantChanged(p.Clone())
		}
	}

	e.catchupDone = true
	e.lastCatchUp = now
	e.retryDelay = catchUpRetryDelay

	sessionCtx, cancel := context.WithCancel(e.runCtx)
	e.sessionCancel = cancel
	if e.feed != nil {
		e.feedCh = e.feed(sessionCtx)
	}
	e.rearm()
	e.log.Info("session started: %d plants, %d caught up", e.plants.Len(), len(res.Transitioned))
	return nil
}

// tick runs one live poller pass on the engine loop.
func (e *Engine) tick(runCtx context.Context) {
	if !e.sessionOn || !e.catchupDone {
		return
	}
	if e.plants.Len() == 0 {
		e.rearm()
		return
	}
	now := e.clock.Now()
	e.lastTick = now
	res := e.rec.Reconcile(runCtx, e.plants.Items(), now, reconcile.Live)
	for _, m := range res.Mutations {
		e.plants.MergeFields(m.PlantID, m.Fields)
		e.dispatchRemote(m.PlantID, m.Fields)
	}
	for _, id := range res.Transitioned {
		if p := e.plants.Get(id); p != nil {
			e.notifier.PlantNeedsWater(p.Clone())
		}
	}
}

// applyChange folds one realtime feed event into the collection. The feed
// is at-least-once and echoes our own writes; Insert dedups by id and
// Update overwrites with the remote snapshot (remote wins).
func (e *Engine) applyChange(ev realtime.ChangeEvent) {
	switch ev.Kind {
	case realtime.EventInsert:
		if ev.Record == nil {
			return
		}
		if e.plants.Insert(ev.Record.Clone()) {
			e.notifier.PlantChanged(ev.Record.Clone())
		}
	case realtime.EventUpdate:
		if ev.Record == nil {
			return
		}
		if e.plants.Merge(ev.Record.Clone()) {
			e.notifier.PlantChanged(ev.Record.Clone())
		}
	case realtime.EventDelete:
		if ev.OldRecord == nil {
			return
		}
		e.removeLocked(ev.OldRecord.Id)
	}
	e.rearm()
}

// dispatchRemote pushes a mutation to the remote store without blocking the
// loop. Failures are logged, not retried here: the local copy is already
// flagged and the next successful fetch or tick converges the remote side.
func (e *Engine) dispatchRemote(id string, fields map[string]any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()
		if err := e.store.UpdatePlant(ctx, id, fields); err != nil {
			e.log.Warning("remote update for plant %s failed: %v", id, err)
		}
	}()
}

// rearm reconciles the poller's armed state with the session state: armed
// only while a session is up, the catch-up pass has completed, and there is
// at least one plant to watch.
func (e *Engine) rearm() {
	want := e.sessionOn && e.catchupDone && e.plants.Len() > 0
	switch {
	case want && e.ticker == nil:
		e.ticker = time.NewTicker(e.interval)
		e.tickCh = e.ticker.C
	case !want && e.ticker != nil:
		e.disarm()
	}
}

func (e *Engine) disarm() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
		e.tickCh = nil
	}
}
