package pipeline

import (
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/buildstore"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/corpus"
	"git.home.luguber.info/inful/knowledgelib/internal/library"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/metadata"
	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
	"git.home.luguber.info/inful/knowledgelib/internal/resources"
)

// buildState carries data between stages of one build.
type buildState struct {
	started   time.Time
	report    *Report
	collector *content.Collector

	table       library.Table
	docs        []corpus.Document
	nav         navigation.Table
	folders     map[string]string // section id to folder id
	enricher    *metadata.Enricher
	transformer *content.Transformer
	gatherer    *resources.Gatherer
}

func newBuildState(b *Builder) *buildState {
	now := b.clock()
	return &buildState{
		started:   time.Now(),
		collector: content.NewCollector(),
		report: &Report{
			BuildID:   buildstore.NewID(),
			StartedAt: now,
		},
	}
}

func (bs *buildState) logAttrs() []any {
	return []any{logfields.BuildID(bs.report.BuildID)}
}

func stageAttrs(stage string, d time.Duration) []any {
	return []any{logfields.Stage(stage), logfields.DurationMS(float64(d.Microseconds()) / 1000)}
}
