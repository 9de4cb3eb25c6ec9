package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/goliatone/go-editkit/pkg/interfaces"
)

// ErrBucketRequired is returned when the S3 store is built without a bucket.
var ErrBucketRequired = errors.New("media: s3 bucket is required")

// S3Config configures the S3-backed blob store. Endpoint and path-style
// addressing cover S3-compatible services (MinIO, R2, Supabase storage).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// BaseURL overrides the public URL prefix, for CDNs fronting the bucket.
	BaseURL      string
	UsePathStyle bool
}

// S3Store uploads assets to an S3 bucket.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store builds the store, resolving credentials from the config when set
// and from the default AWS chain otherwise.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultPublicURL(cfg)
	}

	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		baseURL:  baseURL,
	}, nil
}

// Upload streams the payload to the bucket and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, upload interfaces.BlobUpload) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(upload.Name),
		Body:   upload.Body,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("media: upload %q: %w", upload.Name, err)
	}
	return s.baseURL + "/" + upload.Name, nil
}

// Delete removes the object addressed by a URL previously returned by Upload.
func (s *S3Store) Delete(ctx context.Context, assetURL string) error {
	key, err := s.objectKey(assetURL)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("media: delete %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) objectKey(assetURL string) (string, error) {
	if strings.HasPrefix(assetURL, s.baseURL+"/") {
		return strings.TrimPrefix(assetURL, s.baseURL+"/"), nil
	}
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return "", fmt.Errorf("media: parse asset url: %w", err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	// Path-style URLs carry the bucket as the first path segment.
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("media: no object key in url %q", assetURL)
	}
	return key, nil
}

func defaultPublicURL(cfg S3Config) string {
	if cfg.Endpoint != "" {
		endpoint := strings.TrimRight(cfg.Endpoint, "/")
		return endpoint + "/" + cfg.Bucket
	}
	if cfg.Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
}
