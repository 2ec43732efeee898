package form

import (
	"context"

	"github.com/dmitrymomot/activeform/pkg/logger"
)

// SubmitFunc receives the values captured when Submit started.
type SubmitFunc func(ctx context.Context, values Values) error

// SubmitResult describes what Submit did.
type SubmitResult struct {
	// Native is set when the form posts to Config.Action by itself.
	Native    bool
	Submitted bool
	Values    Values
	Errors    map[string][]string
}

func (r SubmitResult) HasErrors() bool { return len(r.Errors) > 0 }

// Submit hands the form data to the submit handler. With ValidateOnSubmit
// the whole model is validated first and the handler only runs when no
// attribute has errors. The handler receives the values as they were
// before validation started.
func (f *Form) Submit(ctx context.Context) (SubmitResult, error) {
	if f.cfg.Action != "" {
		return SubmitResult{Native: true}, nil
	}
	if f.submit == nil {
		return SubmitResult{}, ErrNoSubmitHandler
	}

	values := f.Values()
	result := SubmitResult{Values: values}

	if f.cfg.ValidateOnSubmit {
		hasErrors, err := f.ValidateAll(ctx)
		if err != nil {
			f.obs.SubmitCompleted(false, err)
			return result, err
		}
		if hasErrors {
			result.Errors = f.Snapshot().Errors()
			f.obs.SubmitCompleted(false, nil)
			f.log.DebugContext(ctx, "submit blocked by validation errors", logger.ErrorCount(len(result.Errors)))
			return result, nil
		}
	}

	if err := f.submit(ctx, values); err != nil {
		f.obs.SubmitCompleted(false, err)
		f.log.WarnContext(ctx, "submit handler failed", logger.Error(err))
		return result, err
	}

	result.Submitted = true
	f.obs.SubmitCompleted(true, nil)
	return result, nil
}
