package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/synccode/pkg/errors"
)

func TestParseSyncCode(t *testing.T) {
	tests := []struct {
		name      string
		contents  string
		expConfig SyncCode
		expError  error
	}{
		{
			name:     "BucketAndPrefix",
			contents: "bucket=my_bucket\nprefix=my_prefix\n",
			expConfig: SyncCode{
				Bucket:  "my_bucket",
				Prefix:  "my_prefix",
				Backend: BackendGCS,
			},
		},
		{
			name: "IgnoresBlankAndUnknownLines",
			contents: "\n# comment\nbucket=my_bucket\n\nowner=someone\n" +
				"prefix=my_prefix",
			expConfig: SyncCode{
				Bucket:  "my_bucket",
				Prefix:  "my_prefix",
				Backend: BackendGCS,
			},
		},
		{
			name:     "CRLFAndLastValueWins",
			contents: "bucket=first\r\nbucket=second\r\nprefix=a=b\r\n",
			expConfig: SyncCode{
				Bucket:  "second",
				Prefix:  "a=b",
				Backend: BackendGCS,
			},
		},
		{
			name: "MinioBackend",
			contents: "bucket=b\nprefix=p\nbackend=minio\n" +
				"endpoint=localhost:9000\nregion=us-east-1\ninsecure=true\n",
			expConfig: SyncCode{
				Bucket:   "b",
				Prefix:   "p",
				Backend:  BackendMinio,
				Endpoint: "localhost:9000",
				Region:   "us-east-1",
				Insecure: true,
			},
		},
		{
			name:     "MissingBucket",
			contents: "prefix=my_prefix\n",
			expError: errors.MissingFieldError{Field: "bucket"},
		},
		{
			name:     "EmptyBucket",
			contents: "bucket=\nprefix=my_prefix\n",
			expError: errors.MissingFieldError{Field: "bucket"},
		},
		{
			name:     "MissingPrefix",
			contents: "bucket=my_bucket\nprefix=\n",
			expError: errors.MissingFieldError{Field: "prefix"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			mockFs(t)
			require.NoError(t, afero.WriteFile(fs, "/sync/_config",
				[]byte(test.contents), 0644))

			cfg, err := ParseSyncCode("/sync")
			assert.Equal(t, test.expError, err)
			assert.Equal(t, test.expConfig, cfg)
		})
	}
}

func TestParseSyncCodeErrors(t *testing.T) {
	mockFs(t)

	_, err := ParseSyncCode("/sync")
	assert.Equal(t, errors.FileNotFound{Path: filepath.Join("/sync", LocalConfigFile)}, err)

	require.NoError(t, afero.WriteFile(fs, "/sync/_config",
		[]byte("bucket=b\nprefix=p\nbackend=ftp\n"), 0644))
	_, err = ParseSyncCode("/sync")
	assert.EqualError(t, err, `unknown backend "ftp"`)

	require.NoError(t, afero.WriteFile(fs, "/sync/_config",
		[]byte("bucket=b\nprefix=p\ninsecure=maybe\n"), 0644))
	_, err = ParseSyncCode("/sync")
	assert.Error(t, err)

	_, err = ParseSyncCode("/sync")
	assert.Equal(t, errors.KindUnknown, errors.KindOf(err))

	require.NoError(t, afero.WriteFile(fs, "/sync/_config", []byte("bucket=b\n"), 0644))
	_, err = ParseSyncCode("/sync")
	assert.Equal(t, errors.KindConfigMissing, errors.KindOf(err))
}

func TestWriteSyncCode(t *testing.T) {
	mockFs(t)

	cfg := SyncCode{
		Bucket:   "my_bucket",
		Prefix:   "my_prefix",
		Backend:  BackendS3,
		Region:   "us-west-2",
		Insecure: true,
	}
	require.NoError(t, WriteSyncCode("/sync", cfg))

	contents, err := afero.ReadFile(fs, "/sync/_config")
	require.NoError(t, err)
	assert.Equal(t, "bucket=my_bucket\nprefix=my_prefix\nbackend=s3\n"+
		"region=us-west-2\ninsecure=true\n", string(contents))

	parsed, err := ParseSyncCode("/sync")
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}
