package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"
)

const (
	// DataStarAcceptHeader is the Accept value sent by datastar actions.
	DataStarAcceptHeader = "text/event-stream"
	// DataStarRequestHeader is set by datastar on every backend action.
	DataStarRequestHeader = "Datastar-Request"
	// DataStarQueryParam carries signals on GET actions.
	DataStarQueryParam = "datastar"
)

const (
	PatchOuter   = datastar.ElementPatchModeOuter
	PatchInner   = datastar.ElementPatchModeInner
	PatchReplace = datastar.ElementPatchModeReplace
)

// IsDataStar reports whether r comes from a datastar action.
func IsDataStar(r *http.Request) bool {
	if r.Header.Get(DataStarRequestHeader) == "true" {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	return r.URL.Query().Has(DataStarQueryParam)
}

type sseKey struct{}

// WithSSE stores the stream of the current request in ctx.
func WithSSE(ctx context.Context, sse *datastar.ServerSentEventGenerator) context.Context {
	return context.WithValue(ctx, sseKey{}, sse)
}

// SSEFromContext returns the stream stored by WithSSE.
func SSEFromContext(ctx context.Context) (*datastar.ServerSentEventGenerator, bool) {
	sse, ok := ctx.Value(sseKey{}).(*datastar.ServerSentEventGenerator)
	return sse, ok && sse != nil
}
