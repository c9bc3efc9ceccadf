package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteLinks_PageExtension(t *testing.T) {
	src := []byte("Read [Basics](../01_Basics/README.md) and [site](https://example.com/x).\n")

	out := RewriteLinks(src, PageLinks(".html"))

	require.Equal(t, "Read [Basics](../01_Basics/README.html) and [site](https://example.com/x).\n", string(out))
}

func TestRewriteLinks_KeepsTitleAndText(t *testing.T) {
	src := []byte(`[notes.md](notes.md "My notes")` + "\n")

	out := RewriteLinks(src, PageLinks(".html"))

	require.Equal(t, `[notes.md](notes.html "My notes")`+"\n", string(out))
}

func TestRewriteLinks_SkipsCode(t *testing.T) {
	src := []byte("" +
		"Inline `[x](a.md)` stays.\n" +
		"\n" +
		"```md\n" +
		"[y](b.md)\n" +
		"```\n" +
		"\n" +
		"    [z](c.md)\n" +
		"\n" +
		"Outside [w](d.md).\n")

	out := RewriteLinks(src, PageLinks(".html"))

	require.Equal(t, "" +
		"Inline `[x](a.md)` stays.\n" +
		"\n" +
		"```md\n" +
		"[y](b.md)\n" +
		"```\n" +
		"\n" +
		"    [z](c.md)\n" +
		"\n" +
		"Outside [w](d.html).\n", string(out))
}

func TestRewriteLinks_MultiplePerLine(t *testing.T) {
	src := []byte("[a](a.md) | [b](b.md#part) | ![img](c.md)\n")

	out := RewriteLinks(src, PageLinks(".htm"))

	require.Equal(t, "[a](a.htm) | [b](b.md#part) | ![img](c.htm)\n", string(out))
}

func TestRewriteLinks_TildeFence(t *testing.T) {
	src := []byte("~~~\n[a](a.md)\n```\n[b](b.md)\n~~~\n[c](c.md)\n")

	out := RewriteLinks(src, PageLinks(".html"))

	require.Equal(t, "~~~\n[a](a.md)\n```\n[b](b.md)\n~~~\n[c](c.html)\n", string(out))
}
