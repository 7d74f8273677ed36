package persistence

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/EMNTV/excellencemedianumerique/internal/netx"
)

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// RemoteHost is the remote document host: a write endpoint accepting a
// named blob and handing back a durable fetchable URL, and a read
// endpoint fetching that URL directly.
type RemoteHost interface {
	// Put stores data under the host's well-known document name and
	// returns the durable public URL.
	Put(ctx context.Context, data []byte) (string, error)

	// Get fetches the current document bytes, bypassing intermediary
	// caches.
	Get(ctx context.Context) ([]byte, error)
}

// S3Config configures an S3Host against an S3-compatible endpoint
// (MinIO and friends work with BaseEndpoint + static credentials).
type S3Config struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Bucket       string
	ObjectKey    string
	// PublicBaseURL overrides how the public object URL is derived. When
	// empty, <BaseEndpoint>/<Bucket>/<ObjectKey> is used (path-style).
	PublicBaseURL string
}

// S3Host stores the document as a single JSON object in a bucket and
// reads it back over plain HTTP from the object's public URL.
type S3Host struct {
	client     *s3.Client
	httpClient *http.Client
	bucket     string
	key        string
	publicURL  string
}

var _ RemoteHost = (*S3Host)(nil)

// NewS3Host builds the S3 client for cfg and resolves the public
// document URL.
func NewS3Host(ctx context.Context, cfg S3Config) (*S3Host, error) {
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

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	publicURL := cfg.PublicBaseURL
	if publicURL == "" {
		publicURL = strings.TrimSuffix(cfg.BaseEndpoint, "/") + "/" + cfg.Bucket
	}
	publicURL = strings.TrimSuffix(publicURL, "/") + "/" + cfg.ObjectKey

	return &S3Host{
		client:     client,
		httpClient: http.DefaultClient,
		bucket:     cfg.Bucket,
		key:        cfg.ObjectKey,
		publicURL:  publicURL,
	}, nil
}

// URL returns the durable public URL of the document object.
func (h *S3Host) URL() string {
	return h.publicURL
}

func (h *S3Host) Put(ctx context.Context, data []byte) (string, error) {
	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &h.bucket,
		Key:         &h.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return h.publicURL, nil
}

func (h *S3Host) Get(ctx context.Context) ([]byte, error) {
	return netx.FetchNoCache(ctx, h.httpClient, h.publicURL)
}

// timeoutHost bounds every remote operation so a hung host degrades to
// the next tier instead of stalling a save or load.
type timeoutHost struct {
	host RemoteHost
	d    time.Duration
}

// WithTimeout wraps host so each Put/Get runs under its own deadline.
// A non-positive d returns host unchanged.
func WithTimeout(host RemoteHost, d time.Duration) RemoteHost {
	if d <= 0 {
		return host
	}
	return &timeoutHost{host: host, d: d}
}

func (t *timeoutHost) Put(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.host.Put(ctx, data)
}

func (t *timeoutHost) Get(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.host.Get(ctx)
}
