package form

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/activeform/pkg/async"
	"github.com/dmitrymomot/activeform/pkg/logger"
	"github.com/dmitrymomot/activeform/pkg/statemachine"
)

// Outcome tells a validation pass whether its remote request was performed.
type Outcome int

const (
	// Skipped means a later trigger superseded the request, or the batch
	// finished after a newer one had already applied.
	Skipped Outcome = iota
	// Performed means the batch ran and its errors were applied.
	Performed
)

func (o Outcome) String() string {
	if o == Performed {
		return "performed"
	}
	return "skipped"
}

// BatchFunc runs one remote validation over the whole form. It reports
// whether the results were applied; gen orders batches.
type BatchFunc func(ctx context.Context, gen uint64) (applied bool, err error)

type phase string

const (
	phaseIdle    phase = "idle"
	phasePending phase = "pending"
)

type signal string

const (
	signalTrigger signal = "trigger"
	signalElapse  signal = "elapse"
)

type trigger struct {
	delay   time.Duration
	resolve async.Resolve[Outcome]
}

type elapse struct {
	gen   uint64
	batch *batch
}

type batch struct {
	gen     uint64
	waiters []async.Resolve[Outcome]
}

// Coordinator debounces remote validation requests. Every request made
// within the delay window of the previous one supersedes it; when the
// window elapses one batch runs and settles all waiters still attached.
type Coordinator struct {
	fsm   *statemachine.Machine[phase, signal]
	clock Clock
	run   BatchFunc
	log   *slog.Logger
	obs   Observer

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	waiters []async.Resolve[Outcome]
}

// NewCoordinator creates an idle coordinator. Nil collaborators fall back
// to the system clock, a discard logger and NopObserver.
func NewCoordinator(run BatchFunc, clock Clock, log *slog.Logger, obs Observer) *Coordinator {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = logger.Discard()
	}
	if obs == nil {
		obs = NopObserver{}
	}

	c := &Coordinator{
		clock: clock,
		run:   run,
		log:   log.With(logger.Component("coordinator")),
		obs:   obs,
	}

	c.fsm = statemachine.MustNew[phase, signal](phaseIdle,
		statemachine.WithTransition(phaseIdle, phasePending, signalTrigger,
			statemachine.WithAction[phase, signal](c.arm),
		),
		statemachine.WithTransition(phasePending, phasePending, signalTrigger,
			statemachine.WithAction[phase, signal](c.supersede, c.arm),
		),
		statemachine.WithTransition(phasePending, phaseIdle, signalElapse,
			statemachine.WithGuard[phase, signal](c.current),
			statemachine.WithAction[phase, signal](c.detach),
		),
	)

	return c
}

// Request registers a waiter for the next batch and restarts the delay
// window.
func (c *Coordinator) Request(delay time.Duration) *async.Future[Outcome] {
	future, resolve := async.NewPromise[Outcome]()
	if err := c.fsm.Fire(context.Background(), signalTrigger, &trigger{delay: delay, resolve: resolve}); err != nil {
		_ = resolve(Skipped, err)
	}
	return future
}

// Pending reports whether a batch is scheduled.
func (c *Coordinator) Pending() bool {
	return c.fsm.Current() == phasePending
}

// Waiting returns the number of waiters attached to the scheduled batch.
func (c *Coordinator) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *Coordinator) arm(_ context.Context, _, _ phase, _ signal, data any) error {
	t, ok := data.(*trigger)
	if !ok {
		return fmt.Errorf("unexpected trigger payload %T", data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	gen := c.gen
	c.waiters = append(c.waiters, t.resolve)
	c.timer = c.clock.AfterFunc(t.delay, func() { c.elapsed(gen) })
	return nil
}

func (c *Coordinator) supersede(_ context.Context, _, _ phase, _ signal, _ any) error {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	settle(waiters, Skipped, nil)
	c.obs.WaitersSuperseded(len(waiters))
	c.log.Debug("remote validation superseded", logger.Waiters(len(waiters)))
	return nil
}

// current rejects elapse events of timers replaced after they started.
func (c *Coordinator) current(_ context.Context, _ phase, _ signal, data any) bool {
	ev, ok := data.(*elapse)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return ev.gen == c.gen
}

func (c *Coordinator) detach(_ context.Context, _, _ phase, _ signal, data any) error {
	ev := data.(*elapse)

	c.mu.Lock()
	defer c.mu.Unlock()

	ev.batch = &batch{gen: c.gen, waiters: c.waiters}
	c.waiters = nil
	c.timer = nil
	return nil
}

func (c *Coordinator) elapsed(gen uint64) {
	ev := &elapse{gen: gen}
	if err := c.fsm.Fire(context.Background(), signalElapse, ev); err != nil {
		return
	}
	c.flush(ev.batch)
}

func (c *Coordinator) flush(b *batch) {
	log := c.log.With(logger.Batch(b.gen))
	log.Debug("remote validation fired", logger.Waiters(len(b.waiters)))

	start := c.clock.Now()
	applied, err := c.run(context.Background(), b.gen)
	elapsed := c.clock.Now().Sub(start)
	c.obs.BatchCompleted(elapsed, err)

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrRemoteValidation, err)
		log.Warn("remote validation failed", logger.Error(err), logger.Duration(elapsed))
		settle(b.waiters, Skipped, err)
		return
	}

	outcome := Performed
	if !applied {
		outcome = Skipped
		log.Debug("remote validation result is stale")
	}
	settle(b.waiters, outcome, nil)
	log.Debug("remote validation settled", logger.Outcome(outcome.String()), logger.Waiters(len(b.waiters)))
}

func settle(waiters []async.Resolve[Outcome], outcome Outcome, err error) {
	for _, resolve := range waiters {
		_ = resolve(outcome, err)
	}
}
