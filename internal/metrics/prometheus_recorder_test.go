package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncDocumentResult(DocumentRendered)
	pr.IncDocumentResult(DocumentRendered)
	pr.IncDocumentResult(DocumentCached)
	pr.AddValidationIssues("warning", 3)
	pr.AddValidationIssues("error", 0)
	pr.SetWorkers(4)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += ":" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	require.InDelta(t, 2, values["knowledgelib_document_results_total:rendered"], 0)
	require.InDelta(t, 1, values["knowledgelib_document_results_total:cached"], 0)
	require.InDelta(t, 3, values["knowledgelib_validation_issues_total:warning"], 0)
	require.NotContains(t, values, "knowledgelib_validation_issues_total:error")
	require.InDelta(t, 4, values["knowledgelib_build_workers"], 0)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(OutcomeWarning)

	path := filepath.Join(t.TempDir(), "metrics", "knowledgelib.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `knowledgelib_build_outcomes_total{outcome="warning"} 1`))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncBuildOutcome(OutcomeFailed)
	r.SetWorkers(1)
}
