// Package form is a headless form engine: it holds one record per form
// attribute, validates attributes with client rules and a debounced remote
// validator, publishes model snapshots and gates submission on the result.
//
// # Model
//
// Each attribute is a Record with its value, rules, resolved validation
// options and the error list of its latest pass. Errors is nil until the
// first pass completes and is replaced, never appended to, by every pass.
// Fields mount attributes with Register; inputs change them with
// UpdateAttribute:
//
//	f, err := form.New(form.DefaultConfig(), form.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	_ = f.Register("name", form.FieldOverrides{},
//		form.SetRules(form.Rule{Validator: "required"}))
//	_ = f.UpdateAttribute(ctx, "name", form.SetValue("Ann"), true)
//
// # Options
//
// Config holds form defaults; FieldOverrides carries per-field settings
// where nil inherits the form value. Config is a plain value, so every form
// works on its own copy.
//
// # Remote validation
//
// With EnableAjaxValidation every pass asks the Coordinator for a remote
// result. Requests made within ValidationDelay of each other collapse into
// one RemoteValidator call over all values; superseded callers are settled
// Skipped and only contribute client errors. A field that opted out waits
// for the batch but never receives remote messages.
//
// # Submission
//
// Submit validates the whole model in parallel when ValidateOnSubmit is set
// and calls the SubmitFunc only when no attribute has errors. Forms with
// Config.Action post natively and Submit does nothing.
package form
