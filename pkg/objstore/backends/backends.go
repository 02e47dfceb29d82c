// Package backends builds the object store client described by the local
// `_config` file.
package backends

import (
	"context"
	"path/filepath"

	"google.golang.org/api/option"

	"github.com/sidkik/synccode/pkg/config"
	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
	"github.com/sidkik/synccode/pkg/objstore/gcs"
	"github.com/sidkik/synccode/pkg/objstore/localfs"
	"github.com/sidkik/synccode/pkg/objstore/minio"
	"github.com/sidkik/synccode/pkg/objstore/s3"
)

// New returns a client for the bucket in `cfg`.
func New(ctx context.Context, cfg config.SyncCode) (objstore.Client, error) {
	switch cfg.Backend {
	case config.BackendGCS, "":
		var opts []option.ClientOption
		if cfg.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.Endpoint))
		}
		return gcs.New(ctx, cfg.Bucket, opts...)
	case config.BackendS3:
		return s3.New(ctx, cfg.Bucket, s3.Options{
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
	case config.BackendMinio:
		if cfg.Endpoint == "" {
			return nil, errors.MissingFieldError{Field: "endpoint"}
		}
		return minio.New(cfg.Endpoint, cfg.Bucket, minio.Options{
			Region:   cfg.Region,
			Insecure: cfg.Insecure,
		})
	case config.BackendLocal:
		if cfg.Endpoint == "" {
			return nil, errors.MissingFieldError{Field: "endpoint"}
		}
		return localfs.NewDir(filepath.Join(cfg.Endpoint, cfg.Bucket)), nil
	default:
		return nil, errors.Newf("unknown backend %q", cfg.Backend)
	}
}
