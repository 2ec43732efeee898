package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
	"github.com/dmitrymomot/activeform/pkg/logger"
	"github.com/dmitrymomot/activeform/pkg/schema"
)

// Factory builds a fresh form for a new visitor. opts must be applied
// after the factory's own options.
type Factory func(id string, opts ...form.Option) (*Session, error)

// FromDefinition builds every form from def. reg must be the registry
// passed to WithFieldRegistry.
func FromDefinition(def schema.Definition, reg *field.Registry, opts ...form.Option) Factory {
	return func(id string, extra ...form.Option) (*Session, error) {
		all := append(slices.Clone(opts), extra...)
		all = append(all, form.WithID(id))
		f, fields, err := def.Build(reg, all...)
		if err != nil {
			return nil, err
		}
		return &Session{Form: f, Fields: fields, Title: def.Title, Submit: def.Submit}, nil
	}
}

// Handler serves live forms over HTTP. Pages are plain HTML; input events
// and submissions are datastar actions answered with SSE patches.
type Handler struct {
	factory       Factory
	store         *Store
	fields        *field.Registry
	log           *slog.Logger
	basePath      string
	scriptURL     string
	summaryHeader string
	success       SuccessView
	router        chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithStore replaces the default in-memory store.
func WithStore(s *Store) Option {
	return func(h *Handler) {
		if s != nil {
			h.store = s
		}
	}
}

// WithFieldRegistry sets the renderers used for every form.
func WithFieldRegistry(reg *field.Registry) Option {
	return func(h *Handler) {
		if reg != nil {
			h.fields = reg
		}
	}
}

// WithBasePath sets the prefix the handler is mounted under.
func WithBasePath(p string) Option {
	return func(h *Handler) { h.basePath = strings.TrimRight(p, "/") }
}

func WithScriptURL(u string) Option {
	return func(h *Handler) {
		if u != "" {
			h.scriptURL = u
		}
	}
}

func WithSummaryHeader(s string) Option {
	return func(h *Handler) { h.summaryHeader = s }
}

// WithSuccessView replaces the fragment shown after a successful submit.
func WithSuccessView(v SuccessView) Option {
	return func(h *Handler) {
		if v != nil {
			h.success = v
		}
	}
}

// New creates the handler and its routes. It panics on a nil factory.
func New(factory Factory, opts ...Option) *Handler {
	if factory == nil {
		panic("handler: nil factory")
	}
	h := &Handler{
		factory:       factory,
		fields:        field.Builtins(),
		log:           logger.Discard(),
		scriptURL:     DefaultScriptURL,
		summaryHeader: DefaultSummaryHeader,
		success:       defaultSuccess,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.store == nil {
		h.store = NewStore(StoreConfig{}, h.log)
	}
	h.log = h.log.With(logger.Component("handler"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Get("/", h.serve(h.show))
	r.Route("/forms/{form}", func(r chi.Router) {
		r.Post("/attributes/{attribute}", h.serve(h.update))
		r.Post("/submit", h.serve(h.submit))
	})
	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Store returns the live form store.
func (h *Handler) Store() *Store { return h.store }

func (h *Handler) handle(s *Session) field.Handle {
	return field.NewHandle(s.Form, h.fields, h.basePath+"/forms/"+s.Form.ID())
}

// show opens a new form and renders its page.
func (h *Handler) show(r *http.Request) Response {
	s, err := h.factory(uuid.NewString(), form.WithScroller(Scroller{}))
	if err != nil {
		return errorResponse{err}
	}
	h.store.Add(s)
	h.log.DebugContext(r.Context(), "form opened", logger.FormID(s.Form.ID()))

	return Templ(page(s.Title, h.scriptURL, formView(h.handle(s), s, h.summaryHeader)))
}

// update applies one input event and re-renders the form fields.
func (h *Handler) update(r *http.Request) Response {
	s, ok := h.store.Get(chi.URLParam(r, "form"))
	if !ok {
		return errorResponse{ErrFormNotFound}
	}
	attribute, err := url.PathUnescape(chi.URLParam(r, "attribute"))
	if err != nil {
		return errorResponse{HTTPError{Code: http.StatusBadRequest, Key: "bad_attribute"}}
	}
	if _, ok := s.Field(attribute); !ok {
		return errorResponse{fmt.Errorf("%w: %q", form.ErrUnknownAttribute, attribute)}
	}
	event, err := field.ParseEvent(r.URL.Query().Get("event"))
	if err != nil {
		return errorResponse{err}
	}
	signals, err := readSignals(r)
	if err != nil {
		return errorResponse{err}
	}

	return h.stream(func(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
		hd := h.handle(s)
		if err := hd.Update(ctx, attribute, event, signals); err != nil {
			return err
		}
		return patchAll(sse, h.fieldPatches(hd.Refresh(), s)...)
	})
}

// submit loads every posted value and runs the form submission. A
// submitted form is replaced by the success view and leaves the store.
func (h *Handler) submit(r *http.Request) Response {
	s, ok := h.store.Get(chi.URLParam(r, "form"))
	if !ok {
		return errorResponse{ErrFormNotFound}
	}
	signals, err := readSignals(r)
	if err != nil {
		return errorResponse{err}
	}

	return h.stream(func(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
		hd := h.handle(s)
		values, err := hd.Decode(signals)
		if err != nil {
			return err
		}
		if err := s.Form.SetValues(ctx, values); err != nil {
			return err
		}

		result, err := s.Form.Submit(ctx)
		switch {
		case err != nil:
			if perr := patchAll(sse, h.fieldPatches(hd.Refresh(), s)...); perr != nil {
				return perr
			}
			return err
		case result.Native:
			return nil
		case !result.Submitted:
			return patchAll(sse, h.fieldPatches(hd.Refresh(), s)...)
		}

		h.store.Remove(s.Form.ID())
		h.log.InfoContext(ctx, "form submitted", logger.FormID(s.Form.ID()))
		return patchAll(sse,
			Patch(h.success(s, result.Values), "#"+formDOMID(s.Form.ID())),
			Patch(alertView(""), "#"+alertID),
		)
	})
}

// fieldPatches re-renders every field, the error summary and clears the
// alert. Remote results may change fields other than the one edited.
func (h *Handler) fieldPatches(hd field.Handle, s *Session) []TemplPatch {
	patches := make([]TemplPatch, 0, len(s.Fields)+2)
	for _, fd := range s.Fields {
		selector := "#" + hd.WrapperID(fd.Attribute)
		if fd.Type == field.TypeHidden {
			selector = "#" + hd.InputID(fd.Attribute)
		}
		patches = append(patches, Patch(field.ActiveField(hd, fd), selector))
	}
	return append(patches,
		Patch(field.ErrorSummary(hd, h.summaryHeader), "#"+hd.SummaryID()),
		Patch(alertView(""), "#"+alertID),
	)
}

func readSignals(r *http.Request) (field.Signals, error) {
	signals := field.Signals{}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignals, err)
	}
	return signals, nil
}

func (h *Handler) logError(r *http.Request, err error, info errorInfo) {
	h.log.LogAttrs(r.Context(), info.level, "request failed",
		logger.RequestID(middleware.GetReqID(r.Context())),
		logger.Error(err),
		logger.Status(info.status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Bool("datastar", IsDataStar(r)),
	)
}
