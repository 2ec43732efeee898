package handler

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/activeform/pkg/logger"
)

// Response renders itself to an http.ResponseWriter.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// TemplPatch is a component with its own patch options.
type TemplPatch struct {
	Component templ.Component
	Options   []datastar.PatchElementOption
}

// Patch targets component at selector.
func Patch(component templ.Component, selector string, opts ...datastar.PatchElementOption) TemplPatch {
	return TemplPatch{
		Component: component,
		Options:   append([]datastar.PatchElementOption{datastar.WithSelector(selector)}, opts...),
	}
}

type templResponse struct {
	status    int
	component templ.Component
}

// Render writes the component as an HTML document. Datastar requests get
// the component as a single morph patch.
func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.component)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if t.status != 0 {
		w.WriteHeader(t.status)
	}
	return t.component.Render(r.Context(), w)
}

// Templ renders component as the whole response.
func Templ(component templ.Component) Response {
	return templResponse{component: component}
}

// StreamFunc writes patches to an open stream. ctx carries the stream, so
// collaborators such as Scroller can write to it.
type StreamFunc func(ctx context.Context, sse *datastar.ServerSentEventGenerator) error

type streamResponse struct {
	h  *Handler
	fn StreamFunc
}

// Render opens the stream and runs the handler. Once the stream is open a
// failure can no longer change the status code, so it is reported as an
// alert patch.
func (s streamResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return ErrNotDataStar
	}

	sse := datastar.NewSSE(w, r)
	err := s.fn(WithSSE(r.Context(), sse), sse)
	if err == nil {
		return nil
	}

	info := classifyError(err)
	s.h.logError(r, err, info)
	if perr := sse.PatchElementTempl(alertView(info.message), datastar.WithSelector("#"+alertID)); perr != nil {
		s.h.log.DebugContext(r.Context(), "alert patch not delivered", logger.Error(perr))
	}
	return nil
}

func (h *Handler) stream(fn StreamFunc) Response {
	return streamResponse{h: h, fn: fn}
}

// patchAll sends every patch in order.
func patchAll(sse *datastar.ServerSentEventGenerator, patches ...TemplPatch) error {
	for _, p := range patches {
		if err := sse.PatchElementTempl(p.Component, p.Options...); err != nil {
			return err
		}
	}
	return nil
}

// serve adapts a route returning a Response to http.HandlerFunc.
func (h *Handler) serve(route func(r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := route(r)
		if resp == nil {
			h.fail(w, r, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			h.fail(w, r, err)
		}
	}
}

// errorResponse defers err to the error path of serve.
type errorResponse struct{ err error }

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error { return e.err }

// fail answers a request that has not written anything yet. Datastar
// requests get an alert patch, others a plain status response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	info := classifyError(err)
	h.logError(r, err, info)

	if IsDataStar(r) {
		sse := datastar.NewSSE(w, r)
		if perr := sse.PatchElementTempl(alertView(info.message), datastar.WithSelector("#"+alertID)); perr != nil {
			h.log.DebugContext(r.Context(), "alert patch not delivered", logger.Error(perr))
		}
		return
	}
	http.Error(w, info.message, info.status)
}
