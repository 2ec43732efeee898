package form

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrymomot/activeform/pkg/async"
	"github.com/dmitrymomot/activeform/pkg/logger"
	"github.com/dmitrymomot/activeform/pkg/rules"
)

// ValidateAttribute runs one validation pass and replaces the attribute's
// errors with client messages followed by remote messages, duplicates
// removed. Only the latest started pass of an attribute writes its result.
func (f *Form) ValidateAttribute(ctx context.Context, attribute string) error {
	start := f.clock.Now()

	f.mu.Lock()
	e, ok := f.entries[attribute]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
	}
	e.seq++
	seq := e.seq
	rec := e.record.clone()
	f.mu.Unlock()

	var client []string
	if rec.Options.EnableClientValidation {
		msgs, err := f.runRules(ctx, rec)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRuleFailed, attribute, err)
		}
		client = msgs
	}

	outcome := Skipped
	if f.coord != nil {
		var err error
		outcome, err = f.coord.Request(rec.Options.ValidationDelay).AwaitContext(ctx)
		if err != nil {
			return err
		}
		f.log.DebugContext(ctx, "remote pass settled", logger.Attribute(attribute), logger.Outcome(outcome.String()))
	}

	f.mu.Lock()
	if f.entries[attribute] != e || e.seq != seq {
		f.mu.Unlock()
		return nil
	}
	var remote []string
	// Skipped passes drop remote errors even when another batch applied.
	if outcome == Performed && e.record.Options.EnableAjaxValidation {
		remote = e.remote
	}
	errs := dedupe(client, remote)
	e.client = client
	e.record.Errors = errs
	f.mu.Unlock()

	f.obs.ValidationCompleted(attribute, len(errs), f.clock.Now().Sub(start))
	return nil
}

func (f *Form) runRules(ctx context.Context, rec Record) ([]string, error) {
	futures := make([]*async.Future[rules.Messages], 0, len(rec.Rules))
	for _, rule := range rec.Rules {
		fn, err := f.resolve(rule)
		if err != nil {
			return nil, err
		}
		futures = append(futures, async.Go(ctx, rule.Options, func(ctx context.Context, opts rules.Options) (rules.Messages, error) {
			return fn(ctx, rec.Value, opts)
		}))
	}

	results, err := async.All(ctx, futures...)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, msgs := range results {
		out = append(out, msgs...)
	}
	return out, nil
}

// runBatch sends the current values to the remote validator and applies the
// result unless a newer batch already did. Fields that opted out of remote
// validation are never written.
func (f *Form) runBatch(ctx context.Context, gen uint64) (bool, error) {
	result, err := f.remote(ctx, f.Values())
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen < f.applied {
		return false, nil
	}
	f.applied = gen

	for _, name := range f.order {
		e := f.entries[name]
		if !e.record.Options.EnableAjaxValidation {
			continue
		}
		msgs, present := result[name]
		e.remote = slices.Clone(msgs)
		if present || e.record.Validated() {
			e.record.Errors = dedupe(e.client, e.remote)
		}
	}
	return true, nil
}

// ValidateAll validates every attribute concurrently, publishes the model
// and scrolls to the first error. It reports whether any attribute has
// errors afterwards.
func (f *Form) ValidateAll(ctx context.Context) (bool, error) {
	f.mu.RLock()
	attributes := slices.Clone(f.order)
	f.mu.RUnlock()

	futures := make([]*async.Future[struct{}], 0, len(attributes))
	for _, attribute := range attributes {
		futures = append(futures, async.Go(ctx, attribute, func(ctx context.Context, name string) (struct{}, error) {
			return struct{}{}, f.ValidateAttribute(ctx, name)
		}))
	}
	if _, err := async.All(ctx, futures...); err != nil {
		return false, err
	}

	snap := f.publish(ctx)
	f.scrollToFirstError(ctx, snap)
	return snap.HasErrors(), nil
}
