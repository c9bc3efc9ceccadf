package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
)

func TestLoad_ValidTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "01": {"category": "Basics", "difficulty": "Beginner", "related_sections": ["02"], "subtitle": "Start here"},
  "02": {"description": "Second"}
}`), 0o600))

	table, err := Load(path)
	require.NoError(t, err)

	entry, ok := table.Lookup("01")
	require.True(t, ok)
	require.Equal(t, Entry{Category: "Basics", Difficulty: Beginner, RelatedSections: []string{"02"}, Subtitle: "Start here"}, entry)
	require.Equal(t, []string{"01", "02"}, table.SectionIDs())
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Empty(t, table)
}

func TestLoad_InvalidJSONIsFatalCorpusError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"01": `), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryCorpus))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.True(t, ce.IsFatal())
}

func TestParse_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"bad difficulty": `{"01": {"difficulty": "Wizard"}}`,
		"bad key":        `{"first": {}}`,
		"entry not obj":  `{"01": "Basics"}`,
		"related type":   `{"01": {"related_sections": [2]}}`,
		"top level":      `["01"]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), "test.json")
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryCorpus))
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "library_metadata.json")
	in := Table{"03": {Category: "Tools", Difficulty: Expert, RelatedSections: []string{"02"}}}

	require.NoError(t, Save(path, in))
	out, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestRanges(t *testing.T) {
	require.Equal(t, "Introduction and Fundamentals", CategoryFor("01"))
	require.Equal(t, "Introduction and Fundamentals", CategoryFor("10"))
	require.Equal(t, "Advanced Strategies", CategoryFor("11"))
	require.Equal(t, "Tools and Resources", CategoryFor("35"))
	require.Equal(t, "Advanced Topics", CategoryFor("49"))
	require.Equal(t, "", CategoryFor("xx"))

	require.Equal(t, Beginner, DifficultyFor("05"))
	require.Equal(t, Intermediate, DifficultyFor("06"))
	require.Equal(t, Advanced, DifficultyFor("30"))
	require.Equal(t, Expert, DifficultyFor("31"))
}

func TestDerive(t *testing.T) {
	table := Derive([]Section{
		{ID: "01", Readme: []byte("# Intro\n\nFirst paragraph\nwraps here.\n\nSecond.")},
		{ID: "02"},
		{ID: "12", Readme: []byte("## Only headings\n")},
	})

	want := Table{
		"01": {Category: "Introduction and Fundamentals", Difficulty: Beginner, RelatedSections: []string{"02"}, Description: "First paragraph wraps here."},
		"02": {Category: "Introduction and Fundamentals", Difficulty: Beginner, RelatedSections: []string{"01", "12"}, Description: DefaultDescription},
		"12": {Category: "Advanced Strategies", Difficulty: Intermediate, RelatedSections: []string{"02"}, Description: DefaultDescription},
	}
	require.Empty(t, cmp.Diff(want, table))
}

func TestDerive_OutputPassesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library_metadata.json")
	require.NoError(t, Save(path, Derive([]Section{{ID: "01"}, {ID: "02"}})))

	_, err := Load(path)
	require.NoError(t, err)
}
