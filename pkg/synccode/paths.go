package synccode

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/errors"
)

// SearchPath is an ordered list of directories without duplicates, such as
// the module search path of an interpreter.
type SearchPath struct {
	paths []string
}

// NewSearchPath creates a SearchPath that starts with `paths`.
func NewSearchPath(paths ...string) *SearchPath {
	sp := &SearchPath{}
	for _, path := range paths {
		if path != "" {
			sp.Add(path)
		}
	}
	return sp
}

// ParseSearchPath splits a list of paths joined with the OS path list
// separator, such as the value of PYTHONPATH.
func ParseSearchPath(list string) *SearchPath {
	return NewSearchPath(filepath.SplitList(list)...)
}

// Add appends `path` unless it's already present. It returns whether the
// path was added.
func (sp *SearchPath) Add(path string) bool {
	if sp.Contains(path) {
		return false
	}
	sp.paths = append(sp.paths, path)
	return true
}

// Contains returns whether `path` is in the search path.
func (sp *SearchPath) Contains(path string) bool {
	for _, p := range sp.paths {
		if p == path {
			return true
		}
	}
	return false
}

// Paths returns the paths in order.
func (sp *SearchPath) Paths() []string {
	return append([]string(nil), sp.paths...)
}

func (sp *SearchPath) String() string {
	return strings.Join(sp.paths, string(os.PathListSeparator))
}

// RegisterPaths adds the directories of the downloaded repositories to `sp`.
// A repository can list the directories to add, relative to its root, in
// its SubPathsFile. Otherwise, the root of the repository is added.
// Directories that don't exist are skipped.
//
// If `repos` is nil, every directory in `baseDir` is treated as a
// repository.
func RegisterPaths(baseDir string, repos []string, sp *SearchPath) error {
	if repos == nil {
		entries, err := afero.ReadDir(fs, baseDir)
		if err != nil {
			return errors.WithContext(err, "list repos")
		}

		for _, entry := range entries {
			if entry.IsDir() {
				repos = append(repos, entry.Name())
			}
		}
	}

	for _, repo := range repos {
		repoPath := filepath.Join(baseDir, repo)
		subPaths, err := readSubPaths(repoPath)
		if err != nil {
			return errors.WithContext(err, "read sub paths of "+repo)
		}

		for _, subPath := range subPaths {
			path := filepath.Join(repoPath, subPath)
			exists, err := afero.Exists(fs, path)
			if err != nil {
				return errors.WithContext(err, "stat")
			}

			if exists {
				sp.Add(path)
			}
		}
	}
	return nil
}

func readSubPaths(repoPath string) ([]string, error) {
	contents, err := afero.ReadFile(fs, filepath.Join(repoPath, SubPathsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{"."}, nil
		}
		return nil, err
	}

	var subPaths []string
	for _, line := range strings.Split(string(contents), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			subPaths = append(subPaths, line)
		}
	}
	return subPaths, nil
}
