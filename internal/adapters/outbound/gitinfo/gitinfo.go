package gitinfo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Revision implements domain.RevisionSource for a definitions directory
// tracked in git. The directory may sit anywhere inside the work tree.
type Revision struct {
	dir string
}

func New(dir string) *Revision {
	return &Revision{dir: dir}
}

// IsGitRepo reports whether the directory belongs to a git work tree.
func (r *Revision) IsGitRepo() bool {
	_, err := r.open()
	return err == nil
}

// Revision returns the HEAD commit hash of the work tree.
func (r *Revision) Revision() (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	return head.Hash().String(), nil
}

func (r *Revision) open() (*git.Repository, error) {
	return git.PlainOpenWithOptions(r.dir, &git.PlainOpenOptions{DetectDotGit: true})
}
