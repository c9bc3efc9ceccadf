package navigation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
)

func ptr(s string) *string { return &s }

func TestBuild_LinearChain(t *testing.T) {
	table := Build([]string{"03_C", "01_A", "02_B"})

	require.True(t, table.Equal(Table{
		"01_A": {Previous: nil, Next: ptr("02_B")},
		"02_B": {Previous: ptr("01_A"), Next: ptr("03_C")},
		"03_C": {Previous: ptr("02_B"), Next: nil},
	}))
}

func TestBuild_FiltersNonCorpusFolders(t *testing.T) {
	table := Build([]string{"01_A", "00_Zero", "50_Late", "notes", "01_A"})

	require.Equal(t, []string{"01_A"}, table.IDs())
	prev, next := table.Neighbours("01_A")
	require.Empty(t, prev)
	require.Empty(t, next)
}

func TestBuild_Empty(t *testing.T) {
	require.Empty(t, Build(nil))
}

func TestMarshal_NullAtEnds(t *testing.T) {
	data, err := Build([]string{"01_A", "02_B"}).Marshal()
	require.NoError(t, err)

	require.JSONEq(t, `{
		"01_A": {"previous": null, "next": "02_B"},
		"02_B": {"previous": "01_A", "next": null}
	}`, string(data))
}

func TestSaveLoad_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	table := Build([]string{"01_A", "02_B", "03_C"})

	changed, err := Save(path, table)
	require.NoError(t, err)
	require.True(t, changed)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	changed, err = Save(path, Build([]string{"02_B", "03_C", "01_A"}))
	require.NoError(t, err)
	require.False(t, changed)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	loaded, found, err := Load(path)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, loaded.Equal(table))
}

func TestLoad_Missing(t *testing.T) {
	table, found, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, table)
}

func TestLoad_MalformedIsFatalCorpusError(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"01_A": [`), 0o600))

	_, _, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryCorpus))
}

func TestEqual(t *testing.T) {
	a := Build([]string{"01_A", "02_B"})
	require.True(t, a.Equal(Build([]string{"01_A", "02_B"})))
	require.False(t, a.Equal(Build([]string{"01_A", "03_C"})))
	require.False(t, a.Equal(Build([]string{"01_A"})))
}
