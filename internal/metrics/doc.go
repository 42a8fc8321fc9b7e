// Package metrics records build observations.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder registers its collectors on
// a registry that can be written to a node-exporter textfile after a build or
// served over HTTP while watching.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	builder := build.New(cfg, build.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(reg, "pagebuilder.prom")
package metrics
