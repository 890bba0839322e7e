// Package alert delivers best-effort desktop notifications for plants that
// just transitioned to needing water. Delivery failures are logged and
// swallowed; a missed notification is acceptable, a blocked reconciler is
// not.
package alert

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/plantd/plantd/pkg/logger"
)

// Sink is the user-facing notification target.
type Sink interface {
	// Raise shows a notification. Fire-and-forget; errors are advisory.
	Raise(title, body, icon, plantID string) error
}

// DesktopSink delivers notifications through the platform notification
// service.
type DesktopSink struct {
	log logger.Logger
}

// notifyFunc is swapped out in tests.
var notifyFunc = beeep.Notify

// NewDesktopSink creates a desktop notification sink.
func NewDesktopSink(l logger.Logger) *DesktopSink {
	return &DesktopSink{log: l}
}

// Raise shows a desktop notification. Errors are logged, never returned as
// failures to the caller beyond the advisory return value.
func (s *DesktopSink) Raise(title, body, icon, plantID string) error {
	if err := notifyFunc(title, body, icon); err != nil {
		s.log.Warning("notification delivery failed for plant %s: %v", plantID, err)
		return err
	}
	return nil
}

// Gate is the one-time permission check consulted before the first live
// alert. When denied, the reconciler still marks the ledger and flags the
// plant, it just skips delivery.
type Gate struct {
	once    sync.Once
	allowed bool
	probe   func() bool
}

// NewGate creates a gate with the given probe. The probe runs once, on the
// first Allowed call; typically it combines the user's config switch with a
// capability check.
func NewGate(probe func() bool) *Gate {
	return &Gate{probe: probe}
}

// Allowed reports whether alert delivery is permitted for this session.
func (g *Gate) Allowed() bool {
	g.once.Do(func() {
		if g.probe != nil {
			g.allowed = g.probe()
		}
	})
	return g.allowed
}

// GatedSink wraps a sink behind a permission gate.
type GatedSink struct {
	sink Sink
	gate *Gate
}

// NewGatedSink wraps sink so that Raise is a silent no-op while the gate is
// denied.
func NewGatedSink(sink Sink, gate *Gate) *GatedSink {
	return &GatedSink{sink: sink, gate: gate}
}

// Raise delivers the notification if the gate permits it.
func (s *GatedSink) Raise(title, body, icon, plantID string) error {
	if !s.gate.Allowed() {
		return nil
	}
	return s.sink.Raise(title, body, icon, plantID)
}

// MockSink records raised alerts for tests.
type MockSink struct {
	mu     sync.Mutex
	Raised []RaisedAlert
	// Err, when set, is returned from Raise after recording.
	Err error
}

// RaisedAlert is one recorded Raise call.
type RaisedAlert struct {
	Title   string
	Body    string
	Icon    string
	PlantID string
}

// Raise records the call.
func (m *MockSink) Raise(title, body, icon, plantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Raised = append(m.Raised, RaisedAlert{title, body, icon, plantID})
	return m.Err
}

// Count returns the number of recorded alerts.
func (m *MockSink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Raised)
}

var (
	_ Sink = (*DesktopSink)(nil)
	_ Sink = (*GatedSink)(nil)
	_ Sink = (*MockSink)(nil)
)
