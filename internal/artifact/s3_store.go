// Package artifact stores rendered plans in S3-compatible object storage.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/vk/gridlevels/internal/ctxlog"
	"github.com/vk/gridlevels/internal/plan"
)

// S3Config holds the connection settings of the object store.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogValue reports the connection settings with the secret key masked.
func (c S3Config) LogValue() slog.Value {
	secret := ""
	if c.SecretKey != "" {
		secret = "REDACTED"
	}
	return slog.GroupValue(
		slog.String("endpoint", c.Endpoint),
		slog.String("region", c.Region),
		slog.String("access_key", c.AccessKey),
		slog.String("secret_key", secret),
		slog.String("bucket", c.Bucket),
		slog.Bool("use_ssl", c.UseSSL),
	)
}

// S3ConfigFromEnv reads GRIDLEVELS_S3_* variables.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Endpoint:  strings.TrimSpace(os.Getenv("GRIDLEVELS_S3_ENDPOINT")),
		Region:    strings.TrimSpace(os.Getenv("GRIDLEVELS_S3_REGION")),
		AccessKey: strings.TrimSpace(os.Getenv("GRIDLEVELS_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("GRIDLEVELS_S3_SECRET_KEY")),
		Bucket:    strings.TrimSpace(os.Getenv("GRIDLEVELS_S3_BUCKET")),
		UseSSL:    parseBool(os.Getenv("GRIDLEVELS_S3_USE_SSL")),
	}
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// S3Store writes objects into a single bucket, creating it on first use.
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

// NewS3Store validates cfg and builds a client. It does not contact the
// server.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put uploads content under key.
func (s *S3Store) Put(ctx context.Context, key string, content []byte, contentType string) error {
	key, err := objectKey(key)
	if err != nil {
		return err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// objectKey normalizes a user supplied key into a relative object path.
func objectKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+key), "/")
	if cleaned == "" {
		return "", fmt.Errorf("object key %q does not name an object", key)
	}
	return cleaned, nil
}

// PlanSink uploads the JSON encoding of a plan to a fixed key.
type PlanSink struct {
	store *S3Store
	key   string
}

// NewPlanSink returns a sink writing to key in store.
func NewPlanSink(store *S3Store, key string) (*PlanSink, error) {
	k, err := objectKey(key)
	if err != nil {
		return nil, err
	}
	return &PlanSink{store: store, key: k}, nil
}

// Name identifies the sink in logs.
func (s *PlanSink) Name() string { return "s3" }

// Publish uploads the plan.
func (s *PlanSink) Publish(ctx context.Context, pl *plan.Plan) error {
	data, err := pl.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Uploading plan", "sink", s.Name(), "bucket", s.store.bucketName, "key", s.key, "bytes", len(data))
	if err := s.store.Put(ctx, s.key, data, "application/json"); err != nil {
		return fmt.Errorf("upload plan to %s/%s: %w", s.store.bucketName, s.key, err)
	}
	return nil
}
