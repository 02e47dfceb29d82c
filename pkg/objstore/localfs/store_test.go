package localfs

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/synccode/pkg/objstore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/prefix/user/repo/_synccode_marker": "marker",
		"/prefix/user/repo/file":             "file",
		"/prefix/other":                      "other",
		"/unrelated":                         "unrelated",
	}
	for path, contents := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(contents), 0644))
	}

	store := New(fs, "test")
	defer func() {
		assert.NoError(t, store.Close())
	}()
	assert.Equal(t, "file://test", store.String())

	objects, err := store.List(ctx, "prefix/user/")
	require.NoError(t, err)
	var keys []string
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	assert.Equal(t, []string{"prefix/user/repo/_synccode_marker", "prefix/user/repo/file"}, keys)

	obj, err := store.Stat(ctx, "prefix/user/repo/_synccode_marker")
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, int64(len("marker")), obj.Size)
	assert.NotEmpty(t, obj.Revision)

	obj, err = store.Stat(ctx, "prefix/user/missing")
	assert.NoError(t, err)
	assert.Nil(t, obj)

	// Directories aren't objects.
	obj, err = store.Stat(ctx, "prefix/user/repo")
	assert.NoError(t, err)
	assert.Nil(t, obj)

	contents, err := store.Read(ctx, "prefix/other")
	assert.NoError(t, err)
	assert.Equal(t, []byte("other"), contents)

	_, err = store.Read(ctx, "prefix/missing")
	assert.Equal(t, objstore.ErrNotExist, err)
}

func TestListEmpty(t *testing.T) {
	objects, err := New(afero.NewMemMapFs(), "empty").List(context.Background(), "prefix/")
	assert.NoError(t, err)
	assert.Empty(t, objects)
}
