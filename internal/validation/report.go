// Package validation checks document sources, rendered pages and the corpus
// layout. Checks accumulate issues and never stop each other.
package validation

import "fmt"

// Severity separates blocking issues from advisory ones.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Kind names the check that produced an issue.
type Kind string

const (
	KindEmpty         Kind = "empty"
	KindLength        Kind = "length"
	KindSection       Kind = "section"
	KindLink          Kind = "link"
	KindHierarchy     Kind = "hierarchy"
	KindElement       Kind = "element"
	KindAccessibility Kind = "accessibility"
	KindOutputLink    Kind = "output_link"
	KindCorpus        Kind = "corpus"
)

// Issue is a single validation finding.
type Issue struct {
	Kind     Kind
	Message  string
	Location string
	Severity Severity
}

func (i Issue) String() string {
	if i.Location == "" {
		return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", i.Location, i.Severity, i.Message)
}

// Report accumulates issues from one or more checks.
type Report struct {
	Issues []Issue
}

func (r *Report) add(kind Kind, sev Severity, location, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
		Severity: sev,
	})
}

// Merge appends the issues of other.
func (r *Report) Merge(other Report) {
	r.Issues = append(r.Issues, other.Issues...)
}

// Passed reports whether no issue of any severity was recorded.
func (r Report) Passed() bool { return len(r.Issues) == 0 }

// HasErrors reports whether any blocking issue was recorded.
func (r Report) HasErrors() bool { return r.ErrorCount() > 0 }

// ErrorCount returns the number of error-level issues.
func (r Report) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r Report) WarningCount() int { return r.count(SeverityWarning) }

func (r Report) count(sev Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// Messages returns the issue messages in order.
func (r Report) Messages() []string {
	out := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		out[i] = issue.Message
	}
	return out
}

// Result returns the pass flag and messages in the (passed, errors) shape.
func (r Report) Result() (bool, []string) {
	return r.Passed(), r.Messages()
}
