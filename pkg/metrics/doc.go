// Package metrics provides Prometheus collectors for view containers.
//
// A nil *Metrics is valid and records nothing, so components can carry an
// optional collector without checks at every call site.
//
//	m := metrics.New(metrics.WithNamespace("myapp"))
//	c, _ := container.New(container.Config{Metrics: m, ...})
//	http.Handle("/metrics", promhttp.Handler())
package metrics
