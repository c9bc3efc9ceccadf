package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o600))
	}
}

func TestGather_Empty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "README.md", "notes.txt")

	out, err := NewGatherer().Gather(dir)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGather_GroupsByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b-guide.pdf", "a-guide.pdf", "Budget.XLSX", "README.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.zip"), 0o750))

	out, err := NewGatherer().Gather(dir)
	require.NoError(t, err)

	require.Equal(t, "<section class=\"additional-resources\">\n"+
		"<h2>Additional Resources</h2>\n"+
		"<h3>Additional PDF Resources</h3>\n<ul>\n"+
		"<li><a href=\"a-guide.pdf\">a-guide</a></li>\n"+
		"<li><a href=\"b-guide.pdf\">b-guide</a></li>\n"+
		"</ul>\n"+
		"<h3>Additional XLSX Resources</h3>\n<ul>\n"+
		"<li><a href=\"Budget.XLSX\">Budget</a></li>\n"+
		"</ul>\n"+
		"</section>", out)
}

func TestScan_EscapesNames(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Q&A sheet.docx")

	l, err := NewGatherer().Scan(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"Q&A sheet.docx"}, l.Names())
	require.Contains(t, l.HTML(), `<a href="Q&amp;A%20sheet.docx">Q&amp;A sheet</a>`)
}

func TestNewGatherer_NormalizesExtensions(t *testing.T) {
	g := NewGatherer("PDF", " .Zip ", "")
	require.Equal(t, []string{".pdf", ".zip"}, g.Extensions())
}

func TestScan_MissingDir(t *testing.T) {
	_, err := NewGatherer().Scan(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
