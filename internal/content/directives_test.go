package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type library struct {
	root string
	doc  string
}

func newLibrary(t *testing.T) library {
	t.Helper()
	root := t.TempDir()
	doc := filepath.Join(root, "01_Intro")
	require.NoError(t, os.MkdirAll(filepath.Join(doc, "snippets"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shared"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(doc, "snippets", "calc.py"), []byte("print(1 + 1)\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shared", "note.md"), []byte("Shared **note**."), 0o600))
	return library{root: root, doc: doc}
}

func TestExpand_CodeAndFile(t *testing.T) {
	lib := newLibrary(t)
	x, err := NewExpander(lib.root)
	require.NoError(t, err)

	out, incs := x.Expand([]byte("A\n@include(code:snippets/calc.py)\nB @include(file:../shared/note.md) C\n"), lib.doc)

	require.Equal(t, "A\n```py\nprint(1 + 1)\n```\nB Shared **note**. C\n", string(out))
	require.Len(t, incs, 2)
	require.NoError(t, incs[0].Err)
	require.Equal(t, DirectiveCode, incs[0].Kind)
	require.Equal(t, DirectiveFile, incs[1].Kind)
}

func TestExpand_SandboxEscape(t *testing.T) {
	lib := newLibrary(t)
	outside := filepath.Join(filepath.Dir(lib.root), "secret-"+filepath.Base(lib.root)+".txt")
	require.NoError(t, os.WriteFile(outside, []byte("TOP SECRET"), 0o600))
	t.Cleanup(func() { _ = os.Remove(outside) })

	x, err := NewExpander(lib.root)
	require.NoError(t, err)

	rel := filepath.ToSlash(filepath.Join("..", "..", filepath.Base(outside)))
	out, incs := x.Expand([]byte("@include(file:"+rel+")\n@include(file:../../etc/passwd)\n"), lib.doc)

	require.Equal(t, "<!-- Failed to include file "+rel+" -->\n<!-- Failed to include file ../../etc/passwd -->\n", string(out))
	require.NotContains(t, string(out), "TOP SECRET")
	require.ErrorIs(t, incs[0].Err, ErrIncludeOutsideRoot)
	require.Error(t, incs[1].Err)
}

func TestExpand_SymlinkEscape(t *testing.T) {
	lib := newLibrary(t)
	target := filepath.Join(t.TempDir(), "outside.txt")
	require.NoError(t, os.WriteFile(target, []byte("outside"), 0o600))
	link := filepath.Join(lib.doc, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	x, err := NewExpander(lib.root)
	require.NoError(t, err)

	out, incs := x.Expand([]byte("@include(code:link.txt)"), lib.doc)

	require.Equal(t, "<!-- Failed to include code from link.txt -->", string(out))
	require.ErrorIs(t, incs[0].Err, ErrIncludeOutsideRoot)
}

func TestExpand_MissingAndEmpty(t *testing.T) {
	lib := newLibrary(t)
	x, err := NewExpander(lib.root)
	require.NoError(t, err)

	out, incs := x.Expand([]byte("@include(code:nope.go) @include(file: )"), lib.doc)

	require.Equal(t, "<!-- Failed to include code from nope.go --> <!-- Failed to include file  -->", string(out))
	require.Error(t, incs[0].Err)
	require.ErrorIs(t, incs[1].Err, ErrIncludeEmptyPath)
	require.Equal(t, filepath.Join(lib.doc, "nope.go"), incs[0].Resolved)
}

func TestExpand_DirectoryTarget(t *testing.T) {
	lib := newLibrary(t)
	x, err := NewExpander(lib.root)
	require.NoError(t, err)

	_, incs := x.Expand([]byte("@include(file:snippets)"), lib.doc)

	require.ErrorIs(t, incs[0].Err, ErrIncludeNotFile)
}

func TestExpand_SkipsCode(t *testing.T) {
	lib := newLibrary(t)
	x, err := NewExpander(lib.root)
	require.NoError(t, err)
	src := "```\n@include(code:snippets/calc.py)\n```\nUse `@include(code:snippets/calc.py)` to embed.\n"

	out, incs := x.Expand([]byte(src), lib.doc)

	require.Equal(t, src, string(out))
	require.Empty(t, incs)
}

func TestExpand_NoNestedExpansion(t *testing.T) {
	lib := newLibrary(t)
	require.NoError(t, os.WriteFile(filepath.Join(lib.doc, "outer.md"), []byte("@include(file:snippets/calc.py)"), 0o600))
	x, err := NewExpander(lib.root)
	require.NoError(t, err)

	out, _ := x.Expand([]byte("@include(file:outer.md)"), lib.doc)

	require.Equal(t, "@include(file:snippets/calc.py)", string(out))
}

func TestFenced_LongerFenceForBackticks(t *testing.T) {
	require.Equal(t, "````md\n```go\nx\n```\n````", fenced("```go\nx\n```\n", "md"))
	require.Equal(t, "```\nplain\n```", fenced("plain", ""))
}
