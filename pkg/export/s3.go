package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-flowcore/pkg/config"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader copies export files to <prefix>/<run id>/<file name>.
type S3Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Uploader creates an uploader from the default AWS credential chain,
// or from static keys when they are configured. Endpoint and UsePathStyle
// allow S3-compatible stores such as MinIO.
func NewS3Uploader(ctx context.Context, cfg config.S3Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3UploaderWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3UploaderWithClient creates an uploader over an existing client.
func NewS3UploaderWithClient(client ObjectPutter, bucket, prefix string) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// ObjectKey returns the key a local file is stored under for runID.
func (u *S3Uploader) ObjectKey(runID, file string) string {
	return path.Join(u.prefix, runID, filepath.Base(file))
}

// Upload puts every file and returns the keys written. It stops at the
// first failure.
func (u *S3Uploader) Upload(ctx context.Context, runID string, files []Written) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := u.ObjectKey(runID, file.Path)
		if err := u.put(ctx, key, file); err != nil {
			return keys, fmt.Errorf("failed to upload s3://%s/%s: %w", u.bucket, key, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (u *S3Uploader) put(ctx context.Context, key string, file Written) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(file.Bytes),
		ContentType:   aws.String(contentType(file.Path)),
	})
	return err
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, SnappySuffix):
		return "application/x-snappy-framed"
	case strings.HasSuffix(name, ".csv"):
		return "text/csv"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
