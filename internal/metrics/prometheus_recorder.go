package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "knowledgelib"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg              *prom.Registry
	stageDuration    *prom.HistogramVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	documentResults  *prom.CounterVec
	validationIssues *prom.CounterVec
	workers          prom.Gauge
}

// NewPrometheusRecorder constructs the build metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documentResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_results_total",
			Help:      "Documents processed by result",
		}, []string{"result"}),
		validationIssues: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validation_issues_total",
			Help:      "Validation issues by severity",
		}, []string{"severity"}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_workers",
			Help:      "Worker pool size of the last build",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.documentResults, pr.validationIssues, pr.workers)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome Outcome) {
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncDocumentResult(result DocumentResult) {
	p.documentResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddValidationIssues(severity string, n int) {
	if n <= 0 {
		return
	}
	p.validationIssues.WithLabelValues(severity).Add(float64(n))
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	p.workers.Set(float64(n))
}

// WriteTextfile exports the registry in the text exposition format to path.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
