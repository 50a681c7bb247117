package rules

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultEffect applies the state change an event stands for once no
// interceptor prevented it. The engine supplies this; it must handle
// every EventKind and panic on kinds it does not know, since an unknown
// kind means corrupted dispatch. It may emit follow-up events through
// the provided emit callback; those join the same drain queue.
type DefaultEffect func(ev *Event, emit func(Event))

// Pipeline dispatches events through the interceptor registry and applies
// default effects, draining secondary events FIFO until quiescent.
type Pipeline struct {
	registry *InterceptorRegistry
	apply    DefaultEffect
	logger   *zap.Logger

	queue    []Event
	draining bool
	maxDrain int
}

// NewPipeline creates a pipeline over the given registry. maxDrain bounds
// the number of events processed in one Emit call as a guard against
// content-created trigger cycles.
func NewPipeline(registry *InterceptorRegistry, apply DefaultEffect, maxDrain int, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDrain <= 0 {
		maxDrain = 1000
	}
	return &Pipeline{
		registry: registry,
		apply:    apply,
		logger:   logger,
		maxDrain: maxDrain,
	}
}

// Emit dispatches the event and drains everything it causes before
// returning. Re-entrant calls (an interceptor or default effect emitting
// from inside a dispatch) enqueue rather than recurse, preserving FIFO
// order of secondary events.
func (p *Pipeline) Emit(ev Event) error {
	_, err := p.run(ev)
	return err
}

// EmitTracked dispatches like Emit and additionally reports the final
// status of the event itself, so callers announcing an action can honor
// its prevention. Re-entrant calls enqueue and report StatusPending.
func (p *Pipeline) EmitTracked(ev Event) (EventStatus, error) {
	return p.run(ev)
}

func (p *Pipeline) run(ev Event) (EventStatus, error) {
	p.queue = append(p.queue, ev)
	if p.draining {
		return StatusPending, nil
	}

	p.draining = true
	defer func() { p.draining = false }()

	status := StatusPending
	first := true
	processed := 0
	for len(p.queue) > 0 {
		if processed >= p.maxDrain {
			// Abort the drain without leaking its residue into the next
			// Emit.
			p.queue = nil
			return status, fmt.Errorf("pipeline drained %d events without quiescing; likely a trigger cycle", processed)
		}
		next := p.queue[0]
		p.queue = p.queue[1:]
		p.dispatch(&next)
		if first {
			status = next.Status
			first = false
		}
		processed++
	}
	return status, nil
}

// dispatch runs a single event through matching interceptors in band
// order, short-circuiting on prevention, then applies the default effect.
func (p *Pipeline) dispatch(ev *Event) {
	for _, in := range p.registry.Matching(ev) {
		outcome := in.Apply(ev)
		for _, emitted := range outcome.Emitted {
			p.queue = append(p.queue, emitted)
		}
		if outcome.Prevented {
			ev.Status = StatusPrevented
			p.logger.Debug("event prevented",
				zap.String("kind", string(ev.Kind)),
				zap.String("interceptor", in.ID),
			)
			return
		}
	}

	if ev.Status == StatusPending {
		ev.Status = StatusProcessed
	}
	if p.apply != nil {
		p.apply(ev, func(secondary Event) {
			p.queue = append(p.queue, secondary)
		})
	}
}

// Pending reports how many events are waiting in the drain queue; useful
// in tests asserting quiescence.
func (p *Pipeline) Pending() int {
	return len(p.queue)
}
