package publish

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config describes an S3-compatible bucket. Cloudflare R2 is addressed with
// Region "auto" and its account endpoint.
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the public origin objects are served from
	PublicBaseURL string
	Prefix        string
	UsePathStyle  bool
}

// Validate checks that the bucket is fully described
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if c.PublicBaseURL == "" {
		return fmt.Errorf("storage public base URL is required")
	}
	if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
		return fmt.Errorf("invalid storage public base URL: %w", err)
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("storage access key and secret must be set together")
	}
	return nil
}

// objectAPI is the subset of the S3 client the publisher needs
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Publisher publishes artifacts to an S3-compatible bucket
type S3Publisher struct {
	client  objectAPI
	bucket  string
	prefix  string
	baseURL string
}

// NewS3Publisher builds an S3 client from cfg
func NewS3Publisher(ctx context.Context, cfg Config) (*S3Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Publisher(client, cfg), nil
}

func newS3Publisher(client objectAPI, cfg Config) *S3Publisher {
	return &S3Publisher{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

// Publish uploads body under fileName and returns its public URL
func (p *S3Publisher) Publish(ctx context.Context, fileName, contentType string, body []byte) (string, error) {
	key := objectKey(p.prefix, fileName)

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &PublishFailure{FileName: fileName, Cause: err}
	}

	publicURL := p.baseURL + "/" + escapeKey(key)
	log.Printf("[publish] stored %s (%d bytes)", key, len(body))
	return publicURL, nil
}

// Ping checks that the bucket is reachable with the configured credentials
func (p *S3Publisher) Ping(ctx context.Context) error {
	_, err := p.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
	if err != nil {
		return fmt.Errorf("storage bucket %s unreachable: %w", p.bucket, err)
	}
	return nil
}

func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
