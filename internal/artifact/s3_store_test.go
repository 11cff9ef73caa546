package artifact

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() S3Config {
	return S3Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "plans",
	}
}

func TestNewS3Store_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*S3Config)
		wantErr string
	}{
		{name: "endpoint", mutate: func(c *S3Config) { c.Endpoint = " " }, wantErr: "endpoint is required"},
		{name: "access key", mutate: func(c *S3Config) { c.AccessKey = "" }, wantErr: "access key and secret key"},
		{name: "secret key", mutate: func(c *S3Config) { c.SecretKey = "" }, wantErr: "access key and secret key"},
		{name: "bucket", mutate: func(c *S3Config) { c.Bucket = "" }, wantErr: "bucket is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			_, err := NewS3Store(cfg)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewS3Store_DefaultsRegion(t *testing.T) {
	store, err := NewS3Store(validConfig())
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", store.region)
	assert.Equal(t, "plans", store.bucketName)
}

func TestObjectKey(t *testing.T) {
	testCases := map[string]string{
		"plan.json":              "plan.json",
		"/runs/42/plan.json":     "runs/42/plan.json",
		`runs\42\plan.json`:      "runs/42/plan.json",
		"runs/../../etc/passwd":  "etc/passwd",
		"  runs//nightly/p.json": "runs/nightly/p.json",
	}
	for in, want := range testCases {
		got, err := objectKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := objectKey("")
	assert.Error(t, err)
	_, err = objectKey("/")
	assert.Error(t, err)
}

func TestNewPlanSink(t *testing.T) {
	store, err := NewS3Store(validConfig())
	require.NoError(t, err)

	sink, err := NewPlanSink(store, "/nightly/plan.json")
	require.NoError(t, err)
	assert.Equal(t, "nightly/plan.json", sink.key)
	assert.Equal(t, "s3", sink.Name())

	_, err = NewPlanSink(store, "")
	assert.Error(t, err)
}

func TestS3ConfigFromEnv(t *testing.T) {
	t.Setenv("GRIDLEVELS_S3_ENDPOINT", " minio:9000 ")
	t.Setenv("GRIDLEVELS_S3_BUCKET", "plans")
	t.Setenv("GRIDLEVELS_S3_USE_SSL", "TRUE")

	cfg := S3ConfigFromEnv()
	assert.Equal(t, "minio:9000", cfg.Endpoint)
	assert.Equal(t, "plans", cfg.Bucket)
	assert.True(t, cfg.UseSSL)
}

func TestS3Config_LogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("store", "s3", validConfig())
	assert.NotContains(t, buf.String(), "minio123")
	assert.Contains(t, buf.String(), "s3.secret_key=REDACTED")

	buf.Reset()
	logger.Info("store", "s3", S3Config{Bucket: "plans"})
	assert.Contains(t, buf.String(), `s3.secret_key=""`)
}
