package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/knowledgelib/internal/navigation"
)

func TestCheckCorpus_Consistent(t *testing.T) {
	out := t.TempDir()
	for _, id := range []string{"01_A", "02_B"} {
		require.NoError(t, os.MkdirAll(filepath.Join(out, id), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(out, id, OutputPage), []byte("x"), 0o600))
	}
	folders := []string{"01_A", "02_B"}

	rep := CheckCorpus(folders, navigation.Build(folders), out)

	require.True(t, rep.Passed(), rep.Messages())
}

func TestCheckCorpus_Drift(t *testing.T) {
	nav := navigation.Build([]string{"01_A", "02_B", "04_D"})
	stale := "09_Gone"
	entry := nav["04_D"]
	entry.Next = &stale
	nav["04_D"] = entry

	rep := CheckCorpus([]string{"01_A", "02_B", "03_C"}, nav, "")

	require.Equal(t, []string{
		"Navigation entry without folder: 04_D",
		"Folder missing from navigation: 03_C",
		"Navigation entry 04_D points to unknown document 09_Gone",
	}, rep.Messages())
}

func TestCheckCorpus_MissingOutput(t *testing.T) {
	rep := CheckCorpus([]string{"01_A"}, navigation.Build([]string{"01_A"}), t.TempDir())

	require.Equal(t, []string{"Missing output page: 01_A/index.html"}, rep.Messages())
}
