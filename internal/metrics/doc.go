// Package metrics records build and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder. The CLI swaps
// in a PrometheusRecorder when a metrics file is requested and writes the
// registry with WriteTextfile after the build, in the format read by the
// node exporter textfile collector:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	report, err := builder.WithRecorder(rec).Run(ctx)
//	_ = rec.WriteTextfile("sitebuilder.prom")
package metrics
