// Package metrics records build observations.
//
// Components receive a Recorder and default to NoopRecorder, so call sites
// never nil-check. PrometheusRecorder backs the interface with a private
// registry that can be exported to a node_exporter textfile after a build.
package metrics
