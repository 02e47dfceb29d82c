package minio

import (
	"context"
	"io/ioutil"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
)

// Options configures the connection to the MinIO server.
type Options struct {
	Region string

	// Insecure disables TLS.
	Insecure bool

	// Creds defaults to the MINIO_* and then the AWS_* environment
	// variables.
	Creds *credentials.Credentials
}

type store struct {
	client *minio.Client
	bucket string
}

// New connects to the S3 compatible server at `endpoint` (host:port).
func New(endpoint, bucket string, opts Options) (objstore.Client, error) {
	creds := opts.Creds
	if creds == nil {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvMinio{},
			&credentials.EnvAWS{},
		})
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: !opts.Insecure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, errors.WithContext(err, "create minio client")
	}
	return &store{client: client, bucket: bucket}, nil
}

func (s *store) String() string {
	return "minio://" + s.client.EndpointURL().Host + "/" + s.bucket
}

func (s *store) Close() error {
	return nil
}

func (s *store) List(ctx context.Context, prefix string) ([]objstore.Object, error) {
	// Cancel the listing goroutine if we return early because of an error.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []objstore.Object
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
	for info := range s.client.ListObjects(ctx, s.bucket, opts) {
		if info.Err != nil {
			return nil, errors.WithContext(info.Err, "list objects")
		}
		objects = append(objects, toObject(info))
	}
	return objects, nil
}

func (s *store) Stat(ctx context.Context, key string) (*objstore.Object, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.WithContext(err, "stat object")
	}

	obj := toObject(info)
	return &obj, nil
}

func (s *store) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, objstore.ErrNotExist
		}
		return nil, errors.WithContext(err, "get object")
	}
	defer obj.Close()

	// GetObject is lazy, so missing objects are only reported once we
	// start reading.
	contents, err := ioutil.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, objstore.ErrNotExist
		}
		return nil, errors.WithContext(err, "read")
	}
	return contents, nil
}

func toObject(info minio.ObjectInfo) objstore.Object {
	return objstore.Object{
		Key:      info.Key,
		Revision: info.ETag,
		Size:     info.Size,
		Updated:  info.LastModified,
	}
}

func isNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
