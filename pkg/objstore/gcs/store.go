package gcs

import (
	"context"
	"io/ioutil"
	"time"

	gcsStorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
)

type gcs struct {
	client *gcsStorage.Client
	bucket string
}

// New creates a read-only client for `bucket`. Credentials are found through
// the application default credentials unless overridden in `opts`.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (objstore.Client, error) {
	opts = append([]option.ClientOption{option.WithScopes(gcsStorage.ScopeReadOnly)}, opts...)
	client, err := gcsStorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.WithContext(err, "create gcs client")
	}
	return &gcs{client: client, bucket: bucket}, nil
}

func (g *gcs) String() string {
	return "gcs://" + g.bucket
}

func (g *gcs) Close() error {
	return g.client.Close()
}

func (g *gcs) List(ctx context.Context, prefix string) ([]objstore.Object, error) {
	var objects []objstore.Object
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.WithContext(err, "list objects")
		}
		objects = append(objects, toObject(attrs))
	}
	return objects, nil
}

func (g *gcs) Stat(ctx context.Context, key string) (*objstore.Object, error) {
	attrs, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcsStorage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, errors.WithContext(err, "get attrs")
	}

	obj := toObject(attrs)
	return &obj, nil
}

func (g *gcs) Read(ctx context.Context, key string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcsStorage.ErrObjectNotExist) {
			return nil, objstore.ErrNotExist
		}
		return nil, errors.WithContext(err, "open reader")
	}
	defer reader.Close()

	contents, err := ioutil.ReadAll(reader)
	if err != nil {
		return nil, errors.WithContext(err, "read")
	}
	return contents, nil
}

// toObject uses the object's update time as its revision. It changes on every
// write to the object, including metadata-only writes.
func toObject(attrs *gcsStorage.ObjectAttrs) objstore.Object {
	return objstore.Object{
		Key:      attrs.Name,
		Revision: attrs.Updated.UTC().Format(time.RFC3339Nano),
		Size:     attrs.Size,
		Updated:  attrs.Updated,
	}
}
