package markdown

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrOverlappingEdits is returned when two edits touch the same bytes.
var ErrOverlappingEdits = errors.New("overlapping edit ranges")

// Edit replaces source[Start:End] with Replacement.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits expressed against the original source.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	prevEnd := 0
	for i, e := range sorted {
		switch {
		case e.Start < 0 || e.End < e.Start:
			return nil, fmt.Errorf("edit %d: invalid range [%d,%d)", i, e.Start, e.End)
		case e.End > len(source):
			return nil, fmt.Errorf("edit %d: range [%d,%d) out of bounds", i, e.Start, e.End)
		case i > 0 && e.Start < prevEnd:
			return nil, ErrOverlappingEdits
		}
		prevEnd = e.End
	}

	out := make([]byte, 0, len(source))
	cursor := 0
	for _, e := range sorted {
		out = append(out, source[cursor:e.Start]...)
		out = append(out, e.Replacement...)
		cursor = e.End
	}
	out = append(out, source[cursor:]...)
	return out, nil
}
