package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_Kinds(t *testing.T) {
	src := []byte("See [guide](guide.md), ![chart](chart.png) and <https://example.com>.\n\n[ref]: other.md\n")

	links := ExtractLinks(src)

	require.Equal(t, []Link{
		{Kind: LinkKindInline, Destination: "guide.md"},
		{Kind: LinkKindImage, Destination: "chart.png"},
		{Kind: LinkKindAuto, Destination: "https://example.com"},
		{Kind: LinkKindReferenceDefinition, Destination: "other.md"},
	}, links)
}

func TestExtractLinks_IgnoresCode(t *testing.T) {
	src := []byte("`[a](inline.md)`\n\n```\n[b](fenced.md)\n```\n\n[c](real.md)\n")

	links := ExtractLinks(src)

	require.Equal(t, []Link{{Kind: LinkKindInline, Destination: "real.md"}}, links)
}

func TestHeadings(t *testing.T) {
	src := []byte("# Top *level*\n\nText\n\n## Second `code`\n\nSetext\n------\n")

	require.Equal(t, []Heading{
		{Level: 1, Text: "Top level"},
		{Level: 2, Text: "Second code"},
		{Level: 2, Text: "Setext"},
	}, Headings(src))
}

func TestHeadings_None(t *testing.T) {
	require.Empty(t, Headings([]byte("plain paragraph\n")))
}
