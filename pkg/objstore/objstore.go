// Package objstore defines the narrow view of a cloud object store that the
// synccode monitor needs: listing keys under a prefix, fetching the metadata
// of a single object, and reading an object's bytes.
//
// Backends live in subpackages:
//   - gcs (Google Cloud Storage)
//   - s3 (AWS S3)
//   - minio (any S3 compatible server through minio-go)
//   - localfs (a directory, used for local development and tests)
//
// The backends package builds the right one from the local configuration.
package objstore

import (
	"context"
	"time"

	"github.com/sidkik/synccode/pkg/errors"
)

// ErrNotExist is returned by Read when the object doesn't exist.
var ErrNotExist = errors.New("object doesn't exist")

// Object is the metadata of a single remote object.
type Object struct {
	// Key is the full key of the object within its bucket.
	Key string

	// Revision is an opaque token that changes whenever the object is
	// rewritten. It is much cheaper to fetch than the object's contents.
	Revision string

	Size    int64
	Updated time.Time
}

// Client is implemented by every object store backend.
type Client interface {
	// List returns the metadata of every object whose key starts with
	// `prefix`, in the order the backend lists them.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Stat returns the metadata of the object at `key`. It returns a nil
	// Object and a nil error if the object doesn't exist.
	Stat(ctx context.Context, key string) (*Object, error)

	// Read returns the contents of the object at `key`, or ErrNotExist.
	Read(ctx context.Context, key string) ([]byte, error)

	// String describes the backend and bucket, e.g. "gcs://bucket".
	String() string

	// Close releases the connections held by the client.
	Close() error
}
