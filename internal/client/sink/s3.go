package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	cc "github.com/dmitrijs2005/docsmith/internal/client/config"
	"github.com/dmitrijs2005/docsmith/internal/filex"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads objects to a bucket under readmes/<yyyy>/<m>/<d>/.
type S3Sink struct {
	client putObjectAPI
	bucket string
	now    func() time.Time
}

// NewS3Sink builds a client from c. Static credentials are used when both
// keys are set, otherwise the default AWS credential chain applies. A
// non-empty Endpoint targets MinIO or another S3-compatible store.
func NewS3Sink(ctx context.Context, c cc.S3Config) (*S3Sink, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Sink{client: client, bucket: c.Bucket, now: time.Now}, nil
}

func (s *S3Sink) storageKey(name string) string {
	d := s.now().UTC()
	return fmt.Sprintf("readmes/%d/%d/%d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), filex.SafeName(name))
}

// Put buffers r so the request can be signed, then uploads it.
func (s *S3Sink) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read object: %w", err)
	}

	key := s.storageKey(name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
