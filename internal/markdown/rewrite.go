package markdown

import (
	"strings"
)

// DestinationFunc maps an inline link destination to its replacement.
// Returning false leaves the destination untouched.
type DestinationFunc func(dest string) (string, bool)

// ProseLine is a markdown line outside fenced and indented code.
type ProseLine struct {
	Text   string // raw line including its newline
	Masked string // Text with inline code spans blanked, same length
	Offset int    // byte offset of the line in the body
}

// ScanProse calls visit for every line that is not code.
func ScanProse(body []byte, visit func(ProseLine)) {
	var fence fenceState
	offset := 0
	for _, line := range strings.SplitAfter(string(body), "\n") {
		start := offset
		offset += len(line)

		if fence.step(line) || fence.open || isIndentedCode(line) {
			continue
		}
		visit(ProseLine{Text: line, Masked: maskInlineCode(line), Offset: start})
	}
}

// LinkEdits returns edits that replace inline link and image destinations
// chosen by fn. Fenced blocks, indented code and inline code spans are skipped.
func LinkEdits(body []byte, fn DestinationFunc) []Edit {
	edits := make([]Edit, 0)
	ScanProse(body, func(line ProseLine) {
		for _, r := range inlineDestinations(line.Masked) {
			dest := line.Text[r.start:r.end]
			repl, ok := fn(dest)
			if !ok || repl == dest {
				continue
			}
			edits = append(edits, Edit{
				Start:       line.Offset + r.start,
				End:         line.Offset + r.end,
				Replacement: []byte(repl),
			})
		}
	})
	return edits
}

// RewriteLinks applies fn to every inline destination outside code.
func RewriteLinks(body []byte, fn DestinationFunc) []byte {
	out, err := ApplyEdits(body, LinkEdits(body, fn))
	if err != nil {
		// LinkEdits never produces overlapping ranges.
		return body
	}
	return out
}

// PageLinks returns a DestinationFunc that swaps a trailing ".md" for ext.
func PageLinks(ext string) DestinationFunc {
	return func(dest string) (string, bool) {
		trimmed := strings.TrimSpace(dest)
		if !strings.HasSuffix(trimmed, ".md") {
			return "", false
		}
		return strings.TrimSuffix(trimmed, ".md") + ext, true
	}
}

type byteRange struct{ start, end int }

// inlineDestinations locates `[text](dest)` destinations on a single line.
// Optional link titles are excluded from the range.
func inlineDestinations(line string) []byteRange {
	out := make([]byteRange, 0)
	for i := 0; i+1 < len(line); i++ {
		if line[i] != ']' || line[i+1] != '(' {
			continue
		}
		if strings.LastIndexByte(line[:i], '[') < 0 {
			continue
		}
		start := i + 2
		closeRel := strings.IndexByte(line[start:], ')')
		if closeRel < 0 {
			continue
		}
		end := start + closeRel
		if sp := strings.IndexAny(line[start:end], " \t"); sp >= 0 {
			end = start + sp
		}
		if end > start {
			out = append(out, byteRange{start: start, end: end})
		}
		i = start + closeRel
	}
	return out
}

type fenceState struct {
	open   bool
	marker string
}

// step reports whether line is a fence delimiter and updates the state.
func (f *fenceState) step(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"```", "~~~"} {
		if !strings.HasPrefix(trimmed, marker) {
			continue
		}
		switch {
		case !f.open:
			f.open, f.marker = true, marker
		case f.marker == marker:
			f.open, f.marker = false, ""
		}
		return true
	}
	return false
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// maskInlineCode blanks out inline code spans while keeping byte offsets.
func maskInlineCode(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}

	out := []byte(s)
	for i := 0; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run] == '`' {
			run++
		}
		marker := strings.Repeat("`", run)
		closeRel := strings.Index(s[i+run:], marker)
		if closeRel < 0 {
			i += run
			continue
		}
		end := i + run + closeRel + run
		for j := i; j < end; j++ {
			out[j] = ' '
		}
		i = end
	}
	return string(out)
}
