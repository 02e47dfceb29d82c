package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
)

// New creates an object store whose keys are slash separated paths relative
// to the root of `fs`. Wrap the filesystem in an afero.BasePathFs to serve
// a directory.
func New(fs afero.Fs, name string) objstore.Client {
	return &store{fs: fs, name: name}
}

// NewDir creates an object store backed by a directory on the local disk.
func NewDir(dir string) objstore.Client {
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir), dir)
}

type store struct {
	fs   afero.Fs
	name string
}

func (s *store) String() string {
	return "file://" + s.name
}

func (s *store) Close() error {
	return nil
}

func (s *store) List(_ context.Context, prefix string) ([]objstore.Object, error) {
	var objects []objstore.Object
	err := afero.Walk(s.fs, "/", func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		key := toKey(path)
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, toObject(key, fi))
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WithContext(err, "walk")
	}
	return objects, nil
}

func (s *store) Stat(_ context.Context, key string) (*objstore.Object, error) {
	fi, err := s.fs.Stat(toPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WithContext(err, "stat")
	}
	if fi.IsDir() {
		return nil, nil
	}

	obj := toObject(key, fi)
	return &obj, nil
}

func (s *store) Read(_ context.Context, key string) ([]byte, error) {
	contents, err := afero.ReadFile(s.fs, toPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, objstore.ErrNotExist
		}
		return nil, errors.WithContext(err, "read")
	}
	return contents, nil
}

func toObject(key string, fi os.FileInfo) objstore.Object {
	return objstore.Object{
		Key:      key,
		Revision: fmt.Sprintf("%d-%d", fi.ModTime().UnixNano(), fi.Size()),
		Size:     fi.Size(),
		Updated:  fi.ModTime(),
	}
}

func toPath(key string) string {
	return filepath.Join("/", filepath.FromSlash(key))
}

func toKey(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "/")
}
