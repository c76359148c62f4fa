package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"skill-alert/internal/config"
	"skill-alert/internal/domain/skill"
)

var ErrNotConfigured = errors.New("object store not configured")

// Getter is the slice of the S3 API the registry source needs.
type Getter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewClient builds an S3 client for AWS or any S3-compatible endpoint
// (R2, MinIO). Static keys are used when both are set; otherwise the
// default credential chain applies.
func NewClient(ctx context.Context, cfg config.RegistryConfig) (*s3.Client, error) {
	region := strings.TrimSpace(cfg.S3Region)
	if region == "" {
		region = "auto"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.S3Endpoint)
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func Download(ctx context.Context, client Getter, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// S3Source loads the skill registry document from a bucket object.
type S3Source struct {
	Client Getter
	Bucket string
	Key    string
}

func (s S3Source) Load(ctx context.Context) ([]skill.Token, error) {
	if s.Client == nil || strings.TrimSpace(s.Bucket) == "" || strings.TrimSpace(s.Key) == "" {
		return nil, ErrNotConfigured
	}
	b, err := Download(ctx, s.Client, s.Bucket, s.Key)
	if err != nil {
		return nil, err
	}
	return skill.DecodeTokens(b)
}
