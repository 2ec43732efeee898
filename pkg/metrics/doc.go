// Package metrics exports form engine events as prometheus metrics.
//
// A Collector is a form.Observer; pass it with form.WithObserver and mount
// Handler on the metrics route:
//
//	collector := metrics.NewCollector(metrics.Config{Enabled: true}, nil)
//	f, err := form.New(cfg, form.WithObserver(collector))
//	r.Handle("/metrics", collector.Handler())
//
// All metrics live under the configured namespace and subsystem. With
// Enabled set to false the collector registers its metrics but records
// nothing.
package metrics
