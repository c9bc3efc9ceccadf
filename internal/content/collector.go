package content

import (
	"slices"
	"sync"
)

// FindingKind groups collected findings.
type FindingKind string

const (
	FindingDirective  FindingKind = "directive"
	FindingValidation FindingKind = "validation"
)

// Finding is a non-fatal problem observed while transforming a document.
type Finding struct {
	Document string
	Kind     FindingKind
	Severity string
	Message  string
	Path     string
}

// Collector gathers findings from concurrent transforms.
type Collector struct {
	mu       sync.Mutex
	findings []Finding
}

// NewCollector returns an empty collector.
func NewCollector() *Collector { return &Collector{} }

// Add records f. A nil collector discards it.
func (c *Collector) Add(f Finding) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.findings = append(c.findings, f)
	c.mu.Unlock()
}

// Findings returns a copy of everything collected so far.
func (c *Collector) Findings() []Finding {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.findings)
}

// ForDocument returns the findings recorded for one document.
func (c *Collector) ForDocument(id string) []Finding {
	out := make([]Finding, 0)
	for _, f := range c.Findings() {
		if f.Document == id {
			out = append(out, f)
		}
	}
	return out
}

// Reset drops all findings.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.findings = nil
	c.mu.Unlock()
}
