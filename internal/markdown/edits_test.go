package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_OrderIndependent(t *testing.T) {
	src := []byte("one two three")

	out, err := ApplyEdits(src, []Edit{
		{Start: 8, End: 13, Replacement: []byte("3")},
		{Start: 0, End: 3, Replacement: []byte("1")},
	})
	require.NoError(t, err)
	require.Equal(t, "1 two 3", string(out))
}

func TestApplyEdits_Insertion(t *testing.T) {
	out, err := ApplyEdits([]byte("ab"), []Edit{{Start: 1, End: 1, Replacement: []byte("-")}})
	require.NoError(t, err)
	require.Equal(t, "a-b", string(out))
}

func TestApplyEdits_RejectsOverlap(t *testing.T) {
	_, err := ApplyEdits([]byte("abcdef"), []Edit{
		{Start: 0, End: 3},
		{Start: 2, End: 4},
	})
	require.ErrorIs(t, err, ErrOverlappingEdits)
}

func TestApplyEdits_RejectsOutOfBounds(t *testing.T) {
	_, err := ApplyEdits([]byte("abc"), []Edit{{Start: 1, End: 9}})
	require.Error(t, err)
}
