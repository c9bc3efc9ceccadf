package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Builder(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := WrapError(cause, CategoryCorpus, "parse library metadata").
		WithContext("path", "library_metadata.json").
		Fatal().
		Build()

	require.Equal(t, CategoryCorpus, err.Category())
	require.Equal(t, SeverityFatal, err.Severity())
	require.True(t, err.IsFatal())
	require.ErrorIs(t, err, cause)

	path, ok := err.Context().GetString("path")
	require.True(t, ok)
	require.Equal(t, "library_metadata.json", path)
	require.Contains(t, err.Error(), "[corpus:fatal] parse library metadata")
}

func TestClassifiedError_WithContextDoesNotMutateOriginal(t *testing.T) {
	base := ConfigError("bad workers").Build()
	derived := base.WithContext("workers", -1)

	_, ok := base.Context().Get("workers")
	require.False(t, ok)
	v, ok := derived.Context().Get("workers")
	require.True(t, ok)
	require.Equal(t, -1, v)
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := CorpusError("navigation file is malformed").Build()
	wrapped := fmt.Errorf("nav check: %w", inner)

	require.True(t, IsClassified(wrapped))
	require.True(t, HasCategory(wrapped, CategoryCorpus))
	require.Equal(t, CategoryCorpus, GetCategory(wrapped))
	require.Equal(t, SeverityFatal, GetSeverity(wrapped))
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: ExitOK},
		{name: "config", err: ConfigError("bad config").Build(), expected: ExitConfig},
		{name: "corpus", err: CorpusError("bad navigation").Build(), expected: ExitBuild},
		{name: "validation", err: NewError(CategoryValidation, "pages invalid").Build(), expected: ExitValidation},
		{name: "state", err: StateError("db locked").Build(), expected: ExitRuntime},
		{name: "unclassified", err: stderrors.New("boom"), expected: ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("missing library root").Build())

	require.Equal(t, ExitConfig, code)
	require.Equal(t, "Error: missing library root\n", out.String())
	require.Contains(t, logs.String(), "category=config")
}
