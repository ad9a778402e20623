package todo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of *s3.Client the S3Lister needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config locates a JSON record list stored as an S3 object.
type S3Config struct {
	Bucket string
	Key    string

	// Region defaults to us-east-1.
	Region string

	// Endpoint overrides the service endpoint, for S3-compatible stores.
	// Path-style addressing is used when it is set.
	Endpoint string
}

// S3Lister is a Lister reading the record list from an S3 object. It is
// read-only; pair it with an HTTPClient or another Toggler.
type S3Lister struct {
	client  ObjectGetter
	bucket  string
	key     string
	metrics *Metrics
	logger  *slog.Logger
}

// NewS3Lister creates a lister with an anonymous S3 client, suitable for
// public buckets and local S3-compatible stores.
func NewS3Lister(config S3Config, metrics *Metrics, logger *slog.Logger) (*S3Lister, error) {
	if config.Bucket == "" || config.Key == "" {
		return nil, fmt.Errorf("todo: s3 bucket and key are required")
	}
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	opts := s3.Options{
		Region:      config.Region,
		Credentials: aws.AnonymousCredentials{},
	}
	if config.Endpoint != "" {
		opts.BaseEndpoint = aws.String(config.Endpoint)
		opts.UsePathStyle = true
	}

	return NewS3ListerWithClient(s3.New(opts), config.Bucket, config.Key, metrics, logger), nil
}

// NewS3ListerWithClient creates a lister over an existing client.
func NewS3ListerWithClient(client ObjectGetter, bucket, key string, metrics *Metrics, logger *slog.Logger) *S3Lister {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Lister{
		client:  client,
		bucket:  bucket,
		key:     key,
		metrics: metrics,
		logger:  logger.With("component", "todo_s3"),
	}
}

// List downloads and parses the object.
func (l *S3Lister) List(ctx context.Context) (records []Record, err error) {
	source := "s3://" + l.bucket + "/" + l.key
	start := time.Now()
	defer func() {
		l.metrics.observeRemote("list", time.Since(start).Seconds(), err)
	}()

	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}

	records, err = ParseRecords(body)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("list fetched", "source", source, "count", len(records))
	return records, nil
}
