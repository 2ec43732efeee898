package form

import "time"

// Observer receives engine events. Implementations must be safe for
// concurrent use; pkg/metrics provides a prometheus-backed one.
type Observer interface {
	// ValidationCompleted is called after each attribute pass that wrote
	// its errors.
	ValidationCompleted(attribute string, errors int, d time.Duration)
	// WaitersSuperseded is called when a trigger settles n pending waiters
	// as skipped.
	WaitersSuperseded(n int)
	// BatchCompleted is called after every remote validation call.
	BatchCompleted(d time.Duration, err error)
	// SubmitCompleted is called once per non-native Submit.
	SubmitCompleted(submitted bool, err error)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) ValidationCompleted(string, int, time.Duration) {}
func (NopObserver) WaitersSuperseded(int)                          {}
func (NopObserver) BatchCompleted(time.Duration, error)            {}
func (NopObserver) SubmitCompleted(bool, error)                    {}
