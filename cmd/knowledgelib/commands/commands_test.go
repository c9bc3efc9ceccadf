package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/review"
)

const readme = `# %s

## Introduction

This part of the library explains one topic in enough words to pass the length check.

## Content

Read the [other part](../%s/) next.

## Summary

That is all for now.
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

// newWorkspace creates a library with two documents and a configuration
// file, and changes into it.
func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lib", "01_Basics", "README.md"),
		fmt.Sprintf(readme, "Basics", "02_Advanced"))
	writeFile(t, filepath.Join(dir, "lib", "02_Advanced", "README.md"),
		fmt.Sprintf(readme, "Advanced", "01_Basics"))
	writeFile(t, filepath.Join(dir, "knowledgelib.yaml"), `library:
  root: lib
output:
  directory: site
build:
  workers: 2
state:
  database: state/builds.db
metrics:
  textfile: state/metrics.prom
`)
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("knowledgelib"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "build")
	require.NoError(t, err)
	require.Contains(t, out, "documents: 2 (cached 0, failed 0)")
	require.FileExists(t, filepath.Join(dir, "site", "01_Basics", "index.html"))
	require.FileExists(t, filepath.Join(dir, "site", "index.html"))
	require.FileExists(t, filepath.Join(dir, "lib", "navigation.json"))
	require.FileExists(t, filepath.Join(dir, "state", "metrics.prom"))

	out, err = run(t, "history")
	require.NoError(t, err)
	require.NotContains(t, out, "No builds recorded")
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestBuildCommand_OutputOverride(t *testing.T) {
	dir := newWorkspace(t)

	_, err := run(t, "build", "--output", "public", "--clean")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "public", "02_Advanced", "index.html"))
	require.NoDirExists(t, filepath.Join(dir, "site"))
}

func TestBuildCommand_StrictFailsOnErrors(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "lib", "03_Broken", "README.md"), "# Broken\n\nSee [gone](missing.md).\n")

	_, err := run(t, "build")
	require.NoError(t, err)

	_, err = run(t, "build", "--strict")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Equal(t, errors.ExitValidation, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestValidateCommand(t *testing.T) {
	dir := newWorkspace(t)

	// no navigation yet
	_, err := run(t, "validate")
	require.Error(t, err)

	_, err = run(t, "nav")
	require.NoError(t, err)
	out, err := run(t, "validate")
	require.NoError(t, err)
	require.Contains(t, out, "2 documents checked: 0 errors")

	writeFile(t, filepath.Join(dir, "lib", "01_Basics", "README.md"), "# Basics\n\nSee [gone](missing.md).\n")
	out, err = run(t, "validate")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Contains(t, out, "missing.md")
}

func TestValidateCommand_Pages(t *testing.T) {
	newWorkspace(t)

	_, err := run(t, "build")
	require.NoError(t, err)
	out, err := run(t, "validate", "--pages")
	require.NoError(t, err)
	require.Contains(t, out, "0 errors")
}

func TestNavCommand(t *testing.T) {
	dir := newWorkspace(t)

	_, err := run(t, "nav", "--check")
	require.Error(t, err)

	out, err := run(t, "nav")
	require.NoError(t, err)
	require.Contains(t, out, "Wrote")

	out, err = run(t, "nav")
	require.NoError(t, err)
	require.Contains(t, out, "unchanged")

	_, err = run(t, "nav", "--check")
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib", "03_New"), 0o755))
	_, err = run(t, "nav", "--check")
	require.Error(t, err)
}

func TestMetadataInitCommand(t *testing.T) {
	dir := newWorkspace(t)

	_, err := run(t, "metadata", "init")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "lib", "library_metadata.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"01"`)
	require.Contains(t, string(data), `"02"`)

	_, err = run(t, "metadata", "init")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = run(t, "metadata", "init", "--force")
	require.NoError(t, err)
}

func TestReviewCommand(t *testing.T) {
	dir := newWorkspace(t)

	_, err := run(t, "review")
	require.Error(t, err)
	require.FileExists(t, filepath.Join(dir, "lib", review.FileName))

	_, err = run(t, "metadata", "init")
	require.NoError(t, err)
	_, err = run(t, "build")
	require.NoError(t, err)

	out, err := run(t, "review", "--report", "review.json")
	require.NoError(t, err)
	require.Contains(t, out, "(100.0%)")
	require.FileExists(t, filepath.Join(dir, "review.json"))
}

func TestHistoryCommand_Disabled(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := run(t, "history")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "init")
	require.NoError(t, err)
	require.Contains(t, out, "knowledgelib.yaml")
	require.FileExists(t, filepath.Join(dir, "knowledgelib.yaml"))

	_, err = run(t, "init")
	require.Error(t, err)

	_, err = run(t, "init", "--force", "--root", "docs")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "knowledgelib.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "root: docs")
}

func TestSectionCommands(t *testing.T) {
	dir := newWorkspace(t)

	out, err := run(t, "section", "new", "03", "--title", "Home Networking", "--description", "Routers and wifi.")
	require.NoError(t, err)
	require.Contains(t, out, "03_Home_Networking")
	require.DirExists(t, filepath.Join(dir, "lib", "03_Home_Networking", "images"))

	_, err = run(t, "section", "new", "03", "--title", "Other")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Section 03 already exists")

	out, err = run(t, "section", "check", "03")
	require.NoError(t, err)
	require.Contains(t, out, "Section 03_Home_Networking is valid")

	_, err = run(t, "nav")
	require.NoError(t, err)
	out, err = run(t, "validate")
	require.NoError(t, err)
	require.Contains(t, out, "3 documents checked: 0 errors")

	writeFile(t, filepath.Join(dir, "lib", "03_Home_Networking", "README.md"), "# Home Networking\n")
	out, err = run(t, "section", "check", "03_Home_Networking")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.Contains(t, out, "Missing required section: Summary")

	_, err = run(t, "section", "check", "09")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}
