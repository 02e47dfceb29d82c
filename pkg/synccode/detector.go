package synccode

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
)

// ShouldUpdate returns whether the remote copy of `repo` differs from the
// local one.
//
// If this Monitor downloaded the repository before, the marker's revision is
// checked first, and an unchanged revision means there's nothing to do. In
// all other cases the marker's contents are compared with the local marker.
// This is necessary the first time a repository is checked, and it avoids a
// download when another process already downloaded the changes.
func (m *Monitor) ShouldUpdate(ctx context.Context, repo string) (bool, error) {
	if revision, ok := m.record.Revision(repo); ok {
		marker, err := m.getMarker(ctx, repo)
		if err != nil {
			return false, err
		}

		if marker.Revision == revision {
			return false, nil
		}
	}
	return m.markerContentChanged(ctx, repo)
}

func (m *Monitor) markerContentChanged(ctx context.Context, repo string) (bool, error) {
	localMarker, err := afero.ReadFile(fs, filepath.Join(m.repoPath(repo), MarkerName))
	if err != nil {
		if !os.IsNotExist(err) {
			return false, errors.WithContext(err, "read local marker")
		}

		// There's nothing to compare against, but the repository still needs
		// to exist remotely.
		if _, err := m.getMarker(ctx, repo); err != nil {
			return false, err
		}
		return true, nil
	}

	remoteMarker, err := m.client.Read(ctx, markerKey(m.config.Prefix, m.user, repo))
	if err != nil {
		if errors.Is(err, objstore.ErrNotExist) {
			return false, errors.RepoNotFound{User: m.user, Repo: repo}
		}
		return false, errors.WithContext(err, "read marker")
	}
	return !bytes.Equal(localMarker, remoteMarker), nil
}

func (m *Monitor) getMarker(ctx context.Context, repo string) (objstore.Object, error) {
	marker, err := m.client.Stat(ctx, markerKey(m.config.Prefix, m.user, repo))
	if err != nil {
		return objstore.Object{}, errors.WithContext(err, "stat marker")
	}
	if marker == nil {
		return objstore.Object{}, errors.RepoNotFound{User: m.user, Repo: repo}
	}
	return *marker, nil
}
