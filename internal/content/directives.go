package content

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/knowledgelib/internal/fsutil"
	"git.home.luguber.info/inful/knowledgelib/internal/markdown"
)

var directivePattern = regexp.MustCompile(`@include\((code|file):([^)]*)\)`)

// Directive resolution failures.
var (
	ErrIncludeEmptyPath   = stderrors.New("include path is empty")
	ErrIncludeOutsideRoot = stderrors.New("include path resolves outside the library root")
	ErrIncludeNotFile     = stderrors.New("include target is not a regular file")
)

// DirectiveKind is the include form.
type DirectiveKind string

const (
	DirectiveCode DirectiveKind = "code"
	DirectiveFile DirectiveKind = "file"
)

// Inclusion is the outcome of one directive.
type Inclusion struct {
	Kind     DirectiveKind
	Raw      string // directive text as written
	Target   string // path as written
	Path     string // Target joined onto the document folder, symlinks not evaluated
	Resolved string // canonical path, or the joined path when resolution failed
	Err      error
}

// Expander replaces include directives with file content from inside a root.
type Expander struct {
	root string
}

// NewExpander sandboxes includes to root. Symlinks in root are resolved.
func NewExpander(root string) (*Expander, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve library root: %w", err)
	}
	if canon, err := filepath.EvalSymlinks(abs); err == nil {
		abs = canon
	}
	return &Expander{root: abs}, nil
}

// Root returns the canonical sandbox root.
func (x *Expander) Root() string { return x.root }

// Expand replaces every directive outside code with the included content or
// a failure comment. Included content is not expanded again.
func (x *Expander) Expand(body []byte, docDir string) ([]byte, []Inclusion) {
	edits := make([]markdown.Edit, 0)
	incs := make([]Inclusion, 0)

	markdown.ScanProse(body, func(line markdown.ProseLine) {
		for _, m := range directivePattern.FindAllStringSubmatchIndex(line.Masked, -1) {
			inc := Inclusion{
				Kind:   DirectiveKind(line.Text[m[2]:m[3]]),
				Raw:    line.Text[m[0]:m[1]],
				Target: strings.TrimSpace(line.Text[m[4]:m[5]]),
			}
			replacement := x.include(&inc, docDir)
			incs = append(incs, inc)
			edits = append(edits, markdown.Edit{
				Start:       line.Offset + m[0],
				End:         line.Offset + m[1],
				Replacement: []byte(replacement),
			})
		}
	})

	out, err := markdown.ApplyEdits(body, edits)
	if err != nil {
		return body, incs
	}
	return out, incs
}

func (x *Expander) include(inc *Inclusion, docDir string) string {
	data, err := x.read(inc, docDir)
	if err != nil {
		inc.Err = err
		return FailureMarker(inc.Kind, inc.Target)
	}
	if inc.Kind == DirectiveCode {
		return fenced(string(data), strings.TrimPrefix(filepath.Ext(inc.Resolved), "."))
	}
	return string(data)
}

func (x *Expander) read(inc *Inclusion, docDir string) ([]byte, error) {
	if inc.Target == "" {
		return nil, ErrIncludeEmptyPath
	}
	joined, err := filepath.Abs(filepath.Join(docDir, filepath.FromSlash(inc.Target)))
	if err != nil {
		return nil, err
	}
	inc.Path, inc.Resolved = joined, joined

	canon, err := filepath.EvalSymlinks(joined)
	if err != nil {
		return nil, err
	}
	if !fsutil.Within(x.root, canon) {
		return nil, ErrIncludeOutsideRoot
	}
	inc.Resolved = canon

	info, err := os.Stat(canon)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, ErrIncludeNotFile
	}
	// #nosec G304 -- canon is confined to the library root above
	return os.ReadFile(canon)
}

// FailureMarker is the comment left in place of a directive that could not be resolved.
func FailureMarker(kind DirectiveKind, target string) string {
	if kind == DirectiveCode {
		return fmt.Sprintf("<!-- Failed to include code from %s -->", target)
	}
	return fmt.Sprintf("<!-- Failed to include file %s -->", target)
}

// fenced wraps code in a backtick fence longer than any run inside it.
func fenced(code, lang string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", max(3, longest+1))
	return fence + lang + "\n" + strings.TrimSuffix(code, "\n") + "\n" + fence
}
