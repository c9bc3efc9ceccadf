package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_YAMLBlock(t *testing.T) {
	in := []byte("---\ntitle: Budgeting Basics\nkeywords:\n  - money\n  - plan\n---\n# Intro\n\nBody.\n")

	fields, body := Parse(in)

	require.Equal(t, "Budgeting Basics", fields["title"])
	require.Equal(t, []any{"money", "plan"}, fields["keywords"])
	require.Equal(t, "# Intro\n\nBody.\n", string(body))
}

func TestParse_JSONPayload(t *testing.T) {
	in := []byte("---\n{\"title\": \"Legacy\", \"difficulty\": \"Advanced\"}\n---\nText\n")

	fields, body := Parse(in)

	require.Equal(t, "Legacy", fields["title"])
	require.Equal(t, "Advanced", fields["difficulty"])
	require.Equal(t, "Text\n", string(body))
}

func TestParse_CRLF(t *testing.T) {
	in := []byte("---\r\ntitle: Windows\r\n---\r\nLine\r\n")

	fields, body := Parse(in)

	require.Equal(t, "Windows", fields["title"])
	require.Equal(t, "Line\r\n", string(body))
}

func TestParse_NoFrontmatter(t *testing.T) {
	in := []byte("# Just markdown\n")

	fields, body := Parse(in)

	require.Empty(t, fields)
	require.Equal(t, in, body)
}

func TestParse_MalformedIsTreatedAsAbsent(t *testing.T) {
	cases := map[string]string{
		"unterminated": "---\ntitle: x\nno closing\n",
		"invalid yaml": "---\ntitle: [unclosed\n---\nbody\n",
		"scalar":       "---\njust a string\n---\nbody\n",
		"sequence":     "---\n- a\n- b\n---\nbody\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			fields, body := Parse([]byte(in))
			require.Empty(t, fields)
			require.Equal(t, in, string(body))
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	in := []byte("---\ntitle: Once\n---\nbody text\n")

	_, body := Parse(in)
	fields, again := Parse(body)

	require.Empty(t, fields)
	require.Equal(t, body, again)
}

func TestParse_StackedBlocks(t *testing.T) {
	in := []byte("---\ntitle: A\n---\n---\nsecond: b\ntitle: ignored\n---\nbody\n")

	fields, body := Parse(in)
	require.Equal(t, Fields{"title": "A", "second": "b"}, fields)
	require.Equal(t, "body\n", string(body))

	again, rest := Parse(body)
	require.Empty(t, again)
	require.Equal(t, body, rest)
}

func TestParse_MalformedSecondBlockStaysInBody(t *testing.T) {
	in := []byte("---\ntitle: A\n---\n---\n- not\n- a mapping\n---\nbody\n")

	fields, body := Parse(in)
	require.Equal(t, Fields{"title": "A"}, fields)
	require.Equal(t, "---\n- not\n- a mapping\n---\nbody\n", string(body))

	again, _ := Parse(body)
	require.Empty(t, again)
}

func TestSplit_EmptyBlock(t *testing.T) {
	raw, body, had, _, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, raw)
	require.Equal(t, "body\n", string(body))
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	raw, body, had, _, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "title: x\n", string(raw))
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, _, _, _, err := Split([]byte("---\ntitle: x\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestJoin_RoundTripsSplit(t *testing.T) {
	in := []byte("---\r\ntitle: x\r\n---\r\nbody\r\n")

	raw, body, had, style, err := Split(in)
	require.NoError(t, err)

	require.Equal(t, in, Join(raw, body, had, style))
}

func TestParseYAML_NotMapping(t *testing.T) {
	_, err := ParseYAML([]byte("- a\n"))
	require.ErrorIs(t, err, ErrNotMapping)
}
