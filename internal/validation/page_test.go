package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const goodPage = `<!DOCTYPE html>
<html><head><title>A | Site</title><meta name="description" content="d"></head>
<body><header><h1>A</h1></header><main><h2>x</h2><img src="a.png" alt="a"></main><footer>f</footer></body></html>`

func TestCheckPage_Good(t *testing.T) {
	rep, err := CheckPage(strings.NewReader(goodPage), "01_A")
	require.NoError(t, err)
	require.True(t, rep.Passed(), rep.Messages())
}

func TestCheckPage_MissingAndDuplicate(t *testing.T) {
	page := `<html><head><title>a</title><title>b</title></head><body><main></main><main></main></body></html>`

	rep, err := CheckPage(strings.NewReader(page), "")
	require.NoError(t, err)

	require.ElementsMatch(t, []string{
		"Duplicate required element: title tag (found 2)",
		"Missing required element: meta description",
		"Duplicate required element: main tag (found 2)",
		"Missing required element: header tag",
		"Missing required element: footer tag",
	}, rep.Messages())
	require.Equal(t, 5, rep.ErrorCount())
}

func TestCheckPage_AccessibilityWarnings(t *testing.T) {
	page := strings.Replace(goodPage, `alt="a"`, "", 1)
	page = strings.Replace(page, "<h2>x</h2>", "<h4>x</h4>", 1)

	rep, err := CheckPage(strings.NewReader(page), "")
	require.NoError(t, err)

	require.False(t, rep.HasErrors())
	require.Equal(t, 2, rep.WarningCount())
	require.Contains(t, rep.Messages(), "Incorrect heading hierarchy: h1 to h4")
	require.Contains(t, rep.Messages(), "Image missing alt attribute: a.png")
}

func TestCheckOutputLinks(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, "01_A"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(out, "02_B"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(out, "static"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(out, "02_B", "index.html"), []byte("<html></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(out, "static", "site.css"), []byte(""), 0o600))

	page := filepath.Join(out, "01_A", "index.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><body>
<a href="../02_B/">next</a>
<a href="/static/site.css">css</a>
<a href="../03_C/">missing</a>
<a href="../static/">dir without index</a>
<a href="https://example.com">ext</a>
<a href="#top">top</a>
<a href="mailto:x@y.z">mail</a>
<a href="tel:123">tel</a>
<a href="guide.pdf?dl=1">pdf</a>
<img src="images/chart.png" alt="chart">
<img src="data:image/png;base64,AAAA" alt="inline">
</body></html>`), 0o600))

	rep, err := CheckOutputLinks(page, out, "01_A")
	require.NoError(t, err)

	require.Equal(t, []string{
		"Broken internal link: ../03_C/",
		"Broken internal link: ../static/",
		"Broken internal link: guide.pdf?dl=1",
		"Broken internal link: images/chart.png",
	}, rep.Messages())

	require.NoError(t, os.MkdirAll(filepath.Join(out, "01_A", "images"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(out, "01_A", "images", "chart.png"), []byte("png"), 0o600))
	rep, err = CheckOutputLinks(page, out, "01_A")
	require.NoError(t, err)
	require.NotContains(t, rep.Messages(), "Broken internal link: images/chart.png")
}

func TestCheckOutputPage(t *testing.T) {
	out := t.TempDir()

	rep := CheckOutputPage(filepath.Join(out, "01_A", "index.html"), out, "01_A")
	require.Len(t, rep.Issues, 1)
	require.Equal(t, KindElement, rep.Issues[0].Kind)
	require.True(t, rep.HasErrors())
	require.Contains(t, rep.Issues[0].Message, "Unreadable output page")

	page := filepath.Join(out, "index.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><head><title>T</title></head><body>
<a href="missing/">gone</a></body></html>`), 0o600))
	rep = CheckOutputPage(page, out, "home")
	require.Contains(t, rep.Messages(), "Broken internal link: missing/")
	require.Contains(t, rep.Messages(), "Missing required element: main tag")
}
