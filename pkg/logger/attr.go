package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". Nil yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// FormID records the form identifier under "form_id".
func FormID(id string) slog.Attr {
	return slog.String("form_id", id)
}

// Attribute records a form attribute name under "attribute".
func Attribute(name string) slog.Attr {
	return slog.String("attribute", name)
}

// Batch records a remote-validation batch generation under "batch".
func Batch(gen uint64) slog.Attr {
	return slog.Uint64("batch", gen)
}

// Outcome records a waiter outcome under "outcome".
func Outcome(outcome string) slog.Attr {
	return slog.String("outcome", outcome)
}

// Waiters records how many callers a batch settled.
func Waiters(n int) slog.Attr {
	return slog.Int("waiters", n)
}

// ErrorCount records the number of validation messages.
func ErrorCount(n int) slog.Attr {
	return slog.Int("error_count", n)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID records the request correlation id under "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Status records an HTTP status code under "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}
