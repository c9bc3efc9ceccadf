package buildstore

import (
	stderrors "errors"

	"github.com/go-git/go-git/v5"
)

// Revision returns the HEAD commit of the repository containing root.
// It is empty when root is not inside a repository or HEAD has no commit yet.
func Revision(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	ref, err := repo.Head()
	if err != nil {
		return "", nil //nolint:nilerr // unborn branch has no revision
	}
	return ref.Hash().String(), nil
}
