package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/activeform/field"
	"github.com/dmitrymomot/activeform/form"
)

// HTTPError carries a status code with a short message key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string { return e.Key }

var (
	// ErrNilResponse indicates a route returned nil instead of a Response.
	ErrNilResponse = errors.New("handler returned nil response")
	// ErrSSENotInitialized indicates a stream was needed but the context
	// carries no SSE generator.
	ErrSSENotInitialized = errors.New("SSE not initialized for this request")

	ErrFormNotFound = HTTPError{Code: http.StatusNotFound, Key: "form_not_found"}
	ErrNotDataStar  = HTTPError{Code: http.StatusBadRequest, Key: "datastar_request_required"}
	ErrBadSignals   = HTTPError{Code: http.StatusBadRequest, Key: "bad_signals"}
)

type errorInfo struct {
	status  int
	message string
	level   slog.Level
}

func classifyError(err error) errorInfo {
	info := errorInfo{status: http.StatusInternalServerError}

	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		info.status = httpErr.Code
	case errors.Is(err, form.ErrUnknownAttribute):
		info.status = http.StatusNotFound
	case errors.Is(err, field.ErrUnknownEvent), errors.Is(err, field.ErrInvalidValue):
		info.status = http.StatusBadRequest
	case errors.Is(err, form.ErrRemoteValidation):
		info.status = http.StatusBadGateway
	}

	if info.status < http.StatusInternalServerError {
		info.message = err.Error()
		info.level = slog.LevelWarn
	} else {
		info.message = http.StatusText(info.status)
		info.level = slog.LevelError
	}
	return info
}
