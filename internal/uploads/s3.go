package uploads

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// S3Config configures an S3Uploader against an S3-compatible endpoint.
type S3Config struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
	// PublicBaseURL overrides how public object URLs are derived. When
	// empty, <BaseEndpoint>/<Bucket> is used (path-style).
	PublicBaseURL string
}

// S3Uploader stores images under date-partitioned random keys.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

var _ Uploader = (*S3Uploader)(nil)

// NewS3Uploader builds the S3 client for cfg.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimSuffix(cfg.BaseEndpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// storageKey partitions uploads by date and randomizes the name so
// uploads never collide; the original extension is kept for content
// sniffing on the way back out.
func storageKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("images/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(name))
}

func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := storageKey(name)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return u.publicBaseURL + "/" + key, nil
}
