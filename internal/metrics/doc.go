// Package metrics records build metrics for nextmod.
//
// The site assembler reports through the Recorder interface. NoopRecorder is
// the default; PrometheusRecorder keeps counters and histograms in a private
// registry that can be written out for the node-exporter textfile collector
// once a build finishes.
package metrics
