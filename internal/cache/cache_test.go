package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint("title: x\n", "# Body\n")
	require.NotEmpty(t, a)
	require.Equal(t, a, Fingerprint("title: x\n", "# Body\n"))
	require.NotEqual(t, a, Fingerprint("title: x\n", "# Body changed\n"))
}

func TestCache_HitAndFingerprintMiss(t *testing.T) {
	c := New[string]()
	c.Put("01_A", "fp1", nil, "<p>a</p>")

	v, ok := c.Get("01_A", "fp1")
	require.True(t, ok)
	require.Equal(t, "<p>a</p>", v)

	_, ok = c.Get("01_A", "fp2")
	require.False(t, ok)

	_, ok = c.Get("01_A", "fp1")
	require.False(t, ok, "mismatched lookup drops the entry")

	require.Equal(t, Stats{Hits: 1, Misses: 2, Entries: 0}, c.Stats())
}

func TestCache_DependencyChangeInvalidates(t *testing.T) {
	dep := filepath.Join(t.TempDir(), "snippet.go")
	require.NoError(t, os.WriteFile(dep, []byte("package a"), 0o600))

	c := New[string]()
	c.Put("01_A", "fp", []string{dep}, "v")

	_, ok := c.Get("01_A", "fp")
	require.True(t, ok)

	require.NoError(t, os.WriteFile(dep, []byte("package a // edited"), 0o600))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(dep, later, later))

	_, ok = c.Get("01_A", "fp")
	require.False(t, ok)
}

func TestCache_MissingDependencyAppearing(t *testing.T) {
	dep := filepath.Join(t.TempDir(), "later.txt")

	c := New[int]()
	c.Put("k", "fp", []string{dep}, 1)
	_, ok := c.Get("k", "fp")
	require.True(t, ok)

	require.NoError(t, os.WriteFile(dep, []byte("now here"), 0o600))
	_, ok = c.Get("k", "fp")
	require.False(t, ok)
}

func TestCache_RetargetedSymlinkInvalidates(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, name := range []string{"a.go", "b.go"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("package x"), 0o600))
		require.NoError(t, os.Chtimes(p, stamp, stamp))
	}
	link := filepath.Join(dir, "current.go")
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.go"), link))

	c := New[string]()
	c.Put("01_A", "fp", []string{link}, "v")
	_, ok := c.Get("01_A", "fp")
	require.True(t, ok)

	require.NoError(t, os.Remove(link))
	require.NoError(t, os.Symlink(filepath.Join(dir, "b.go"), link))

	_, ok = c.Get("01_A", "fp")
	require.False(t, ok)
}

func TestCache_NilIsDisabled(t *testing.T) {
	var c *Cache[string]
	c.Put("k", "fp", nil, "v")
	_, ok := c.Get("k", "fp")
	require.False(t, ok)
}

func TestCache_ConcurrentUse(t *testing.T) {
	c := New[int]()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := filepath.Join("doc", string(rune('a'+i%4)))
			c.Put(key, "fp", nil, i)
			_, _ = c.Get(key, "fp")
		}(i)
	}
	wg.Wait()
	require.LessOrEqual(t, c.Stats().Entries, 4)
}
