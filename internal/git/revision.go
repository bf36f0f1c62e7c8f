// Package git reads source revision information with go-git.
package git

import (
	"errors"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Info describes the commit checked out in a working tree.
type Info struct {
	Commit string
	// Branch is empty for a detached HEAD.
	Branch string
}

// Short returns the first seven characters of the commit hash.
func (i Info) Short() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// Head opens the repository containing dir, searching parent directories,
// and reports its HEAD. A directory outside any repository, or a repository
// without commits, yields a zero Info and no error.
func Head(dir string) (Info, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, ferrors.WrapError(err, ferrors.CategoryGit, "open repository").WithPath(dir).Build()
	}
	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, ferrors.WrapError(err, ferrors.CategoryGit, "resolve HEAD").WithPath(dir).Build()
	}
	info := Info{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// Revision returns the HEAD commit hash of the repository containing dir,
// or "" when there is none.
func Revision(dir string) (string, error) {
	info, err := Head(dir)
	return info.Commit, err
}
