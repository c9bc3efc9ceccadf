// Package frontmatter splits `---` delimited YAML headers from markdown bodies.
//
// JSON objects are valid YAML, so documents that carry JSON frontmatter parse
// through the same path.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// ErrNotMapping indicates the frontmatter payload parsed to something other than a mapping.
var ErrNotMapping = errors.New("frontmatter is not a key/value mapping")

// Fields is the parsed key/value payload of a frontmatter block.
type Fields map[string]any

// Style captures the newline convention of the source so Join can reproduce it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Parse extracts frontmatter fields and the remaining body from a document.
//
// Parse never fails. A document without a leading block, with an unterminated
// block, or with a payload that is not a mapping is returned whole with empty
// fields. Blocks stacked directly after the first one are consumed too, with
// earlier blocks winning on duplicate keys, so parsing a returned body again
// always yields empty fields.
func Parse(content []byte) (Fields, []byte) {
	fields, body, ok := parseBlock(content)
	if !ok {
		return Fields{}, content
	}
	for {
		more, rest, ok := parseBlock(body)
		if !ok {
			return fields, body
		}
		for k, v := range more {
			if _, seen := fields[k]; !seen {
				fields[k] = v
			}
		}
		body = rest
	}
}

func parseBlock(content []byte) (Fields, []byte, bool) {
	raw, body, had, _, err := Split(content)
	if err != nil || !had {
		return nil, nil, false
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return nil, nil, false
	}
	return fields, body, true
}

// Split separates the delimited frontmatter block from the body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) {
			end := len(content) - len(tail)
			return content[start : end+len(nl)], []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, frontmatter...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML parses a raw payload (without delimiters) into fields.
func ParseYAML(frontmatter []byte) (Fields, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return Fields{}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(frontmatter, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return Fields{}, nil
	}
	if node.Content[0].Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	var fields map[string]any
	if err := node.Content[0].Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
