// Package reconcile decides which plants just transitioned to needing water.
// It compares each plant's schedule against the clock, consults the dedup
// ledger so the live poller and the catch-up pass never double-fire the same
// scheduled instant, and emits the minimal corrective mutations.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/plantd/plantd/internal/alert"
	"github.com/plantd/plantd/pkg/logger"
	"github.com/plantd/plantd/pkg/plantlib"
)

// Mode selects the side-effect policy for a reconciliation pass.
type Mode int

const (
	// Live is the periodic poller pass: new transitions raise an alert.
	Live Mode = iota
	// CatchUp is the one-shot session-start pass: instants discovered in the
	// past are flagged and marked but never alerted, since alerting on them
	// would be a burst of retroactive noise.
	CatchUp
)

// String returns the mode name for logs.
func (m Mode) String() string {
	if m == CatchUp {
		return "catchup"
	}
	return "live"
}

// Ledger is the durable dedup marker store consulted by the reconciler.
type Ledger interface {
	IsHandled(ctx context.Context, plantID, tod, day string) (bool, error)
	MarkHandled(ctx context.Context, plantID, tod, day string) error
	PurgeOlderThan(ctx context.Context, day string) (int64, error)
}

// Mutation is a queued field update for one plant, applied to the local
// collection synchronously and dispatched to the remote store by the caller.
type Mutation struct {
	PlantID string
	Fields  map[string]any
}

// Result reports the outcome of one reconciliation pass.
type Result struct {
	// Transitioned lists ids of plants that just flipped to needing water.
	Transitioned []string
	// Mutations are the queued field updates, one per transitioned plant.
	Mutations []Mutation
}

// Reconciler orchestrates the schedule evaluator, the dedup ledger and the
// alert sink. It holds no plant state of its own; the caller owns the
// collection.
type Reconciler struct {
	ledger Ledger
	alerts alert.Sink
	log    logger.Logger
}

// New creates a reconciler.
func New(ledger Ledger, alerts alert.Sink, l logger.Logger) *Reconciler {
	return &Reconciler{ledger: ledger, alerts: alerts, log: l}
}

// Reconcile evaluates every plant at the given instant and returns the set
// that just transitioned to needing water, with the mutations to apply.
//
// Plants already flagged, and plants without a schedule, are skipped
// entirely; once flagged, a plant is inert until the flag is cleared
// externally. For the rest, the first reached-but-unhandled instant of the
// day produces one transition: the instant is marked in the ledger, a
// needs_water mutation is queued, and in Live mode an alert is raised. One
// transition per plant per pass is enough because the flag is boolean.
//
// Plants are processed independently; the result does not depend on their
// order. Ledger failures never fail the pass: a read error counts as "not
// handled" and a write error leaves the occurrence unmarked, to be retried
// on the next cycle rather than suppressing the alert.
func (r *Reconciler) Reconcile(ctx context.Context, plants []*plantlib.Plant, now time.Time, mode Mode) Result {
	var res Result
	day := plantlib.DayKey(now)

	for _, p := range plants {
		if p.NeedsWater || len(p.WateringSchedule) == 0 {
			continue
		}
		for _, tod := range plantlib.ReachedInstants(p.WateringSchedule, now) {
			handled, err := r.ledger.IsHandled(ctx, p.Id, tod.String(), day)
			if err != nil {
				r.log.Warning("ledger check failed for plant %s at %s: %v", p.Id, tod, err)
			}
			if handled {
				continue
			}
			if err := r.ledger.MarkHandled(ctx, p.Id, tod.String(), day); err != nil {
				// Leave unmarked; the alert still fires and the next
				// cycle retries the mark.
				r.log.Warning("ledger mark failed for plant %s at %s: %v", p.Id, tod, err)
			}
			res.Transitioned = append(res.Transitioned, p.Id)
			res.Mutations = append(res.Mutations, Mutation{
				PlantID: p.Id,
				Fields:  map[string]any{"needs_water": true},
			})
			if mode == Live {
				_ = r.alerts.Raise(
					fmt.Sprintf("Time to water %s!", p.Name),
					fmt.Sprintf("It's %s, go check your plant! 🌱", tod),
					p.ImageURL,
					p.Id,
				)
			}
			break
		}
	}

	// Retention is two days: today's markers are live state, yesterday's
	// only guard the midnight boundary. Everything older goes.
	cutoff := plantlib.DayKey(now.AddDate(0, 0, -1))
	if _, err := r.ledger.PurgeOlderThan(ctx, cutoff); err != nil {
		r.log.Warning("ledger purge failed: %v", err)
	}

	return res
}
