package paths

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
)

func TestRun(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "repo1"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "repo2", "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "repo2", ".synccode_sub_paths"),
		[]byte("src\n"), 0644))

	parseUserConfig = func() (config.User, error) {
		return config.User{Path: base}, nil
	}
	homedirExpand = func(path string) (string, error) {
		return path, nil
	}
	getenv = func(key string) string {
		assert.Equal(t, "PYTHONPATH", key)
		return "/usr/lib/python"
	}

	out := bytes.NewBuffer(nil)
	stdout = out
	require.NoError(t, run("", "", nil))
	assert.Equal(t, filepath.Join(base, "repo1")+"\n"+
		filepath.Join(base, "repo2", "src")+"\n", out.String())

	out.Reset()
	require.NoError(t, run("", "PYTHONPATH", []string{"repo2"}))
	assert.Equal(t, "PYTHONPATH=/usr/lib/python"+string(os.PathListSeparator)+
		filepath.Join(base, "repo2", "src")+"\n", out.String())

	// The path flag takes precedence over the user config.
	parseUserConfig = func() (config.User, error) {
		return config.User{}, errors.New("no config")
	}
	out.Reset()
	require.NoError(t, run(base, "", []string{"repo1"}))
	assert.Equal(t, filepath.Join(base, "repo1")+"\n", out.String())
}
