package s3

import (
	"context"
	"io/ioutil"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
)

// API is the subset of the S3 client used by the store. It's satisfied by
// *s3.Client, and by mocks in the unit tests.
type API interface {
	s3.ListObjectsV2APIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput,
		optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures the S3 client.
type Options struct {
	// Region overrides the region from the default AWS config.
	Region string

	// Endpoint points the client at an S3 compatible server instead of AWS.
	// Path style addressing is used when it's set.
	Endpoint string
}

type store struct {
	api    API
	bucket string
}

// New creates a store for `bucket`, loading credentials through the default
// AWS credential chain.
func New(ctx context.Context, bucket string, opts Options) (objstore.Client, error) {
	var loadOpts []func(*awsConfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsConfig.WithRegion(opts.Region))
	}

	cfg, err := awsConfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.WithContext(err, "load aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithAPI(client, bucket), nil
}

// NewWithAPI creates a store that uses the given S3 API implementation.
func NewWithAPI(api API, bucket string) objstore.Client {
	return &store{api: api, bucket: bucket}
}

func (s *store) String() string {
	return "s3://" + s.bucket
}

// Close is a no-op. The SDK's HTTP client doesn't need to be released.
func (s *store) Close() error {
	return nil
}

func (s *store) List(ctx context.Context, prefix string) ([]objstore.Object, error) {
	var objects []objstore.Object
	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.WithContext(err, "list objects")
		}

		for _, obj := range page.Contents {
			objects = append(objects, objstore.Object{
				Key:      aws.ToString(obj.Key),
				Revision: revision(obj.ETag),
				Size:     aws.ToInt64(obj.Size),
				Updated:  aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

func (s *store) Stat(ctx context.Context, key string) (*objstore.Object, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, errors.WithContext(err, "head object")
	}

	return &objstore.Object{
		Key:      key,
		Revision: revision(out.ETag),
		Size:     aws.ToInt64(out.ContentLength),
		Updated:  aws.ToTime(out.LastModified),
	}, nil
}

func (s *store) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, objstore.ErrNotExist
		}
		return nil, errors.WithContext(err, "get object")
	}
	defer out.Body.Close()

	contents, err := ioutil.ReadAll(out.Body)
	if err != nil {
		return nil, errors.WithContext(err, "read")
	}
	return contents, nil
}

// revision uses the ETag, which changes whenever the object is rewritten
// with different contents.
func revision(etag *string) string {
	return strings.Trim(aws.ToString(etag), `"`)
}

func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return true
	}

	// HeadObject responses have no body, so the SDK can't always decode
	// them into a typed error.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
