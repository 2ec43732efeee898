// Package handler serves live forms to browsers using datastar.
//
// Every visit to the root route builds a fresh form through a Factory and
// keeps it in a Store keyed by its uuid. The rendered inputs post their
// events back to the form routes:
//
//	GET  /                                   render a new form page
//	POST /forms/{form}/attributes/{attr}?event=change|blur|type
//	POST /forms/{form}/submit
//
// Event and submit routes read the datastar signals, run the form engine
// and answer with SSE patches: every field wrapper, the error summary and
// the alert block are morphed in place. When the form scrolls to its first
// error, Scroller writes a script to the same stream.
//
// Usage:
//
//	def, _ := schema.Load("signup.yaml")
//	reg := field.Builtins()
//	h := handler.New(
//		handler.FromDefinition(def, reg, form.WithSubmitHandler(save)),
//		handler.WithFieldRegistry(reg),
//		handler.WithLogger(log),
//	)
//	go h.Store().Run(ctx)
//	http.ListenAndServe(":8080", h)
//
// Errors before the stream opens become plain status responses, or an
// alert patch for datastar requests. Errors after it opens are always
// alert patches.
package handler
