package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vikalp/backend/internal/infrastructure/config"
	"github.com/vikalp/backend/internal/infrastructure/printing"
)

func validConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "invoice-exports",
		AccessKey:    "access",
		SecretKey:    "secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Archive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		errMsg string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
		{"invalid endpoint", func(c *config.StorageConfig) { c.Endpoint = "http://" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			_, err := NewS3Archive(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("valid config creates archive", func(t *testing.T) {
		archive, err := NewS3Archive(validConfig(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "invoice-exports", archive.Bucket())
		assert.Equal(t, 15*time.Minute, archive.presignExpiration)
	})

	t.Run("WithPresignExpiration overrides config", func(t *testing.T) {
		archive, err := NewS3Archive(validConfig(), WithPresignExpiration(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, archive.presignExpiration)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		useSSL   bool
		want     string
	}{
		{"", false, ""},
		{"minio:9000", false, "http://minio:9000"},
		{"minio:9000", true, "https://minio:9000"},
		{"https://s3.example.test", false, "https://s3.example.test"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			got, err := normalizeEndpoint(tt.endpoint, tt.useSSL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestS3Archive_URL(t *testing.T) {
	archive, err := NewS3Archive(validConfig())
	require.NoError(t, err)

	t.Run("empty key returns error", func(t *testing.T) {
		_, err := archive.URL(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("presigns a path-style link", func(t *testing.T) {
		link, err := archive.URL(context.Background(), "exports/2025/06/abc.pdf")
		require.NoError(t, err)
		assert.Contains(t, link, "http://localhost:9000/invoice-exports/exports/2025/06/abc.pdf")
		assert.Contains(t, link, "X-Amz-Expires=900")
	})
}

func TestS3Archive_Store_Validation(t *testing.T) {
	archive, err := NewS3Archive(validConfig())
	require.NoError(t, err)

	t.Run("nil request", func(t *testing.T) {
		_, err := archive.Store(context.Background(), nil)
		var renderErr *printing.RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, printing.ErrCodeStorageFailed, renderErr.Code)
	})

	t.Run("empty PDF", func(t *testing.T) {
		_, err := archive.Store(context.Background(), &printing.StoreRequest{JobID: uuid.New()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PDF data is empty")
	})

	t.Run("Get requires key", func(t *testing.T) {
		_, err := archive.Get(context.Background(), "")
		require.Error(t, err)
	})
}

// ============================================================================
// Integration Tests (require MinIO or RustFS on localhost:9000)
// ============================================================================

func newIntegrationArchive(t *testing.T) *S3Archive {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=1 and run MinIO to enable.")
	}

	cfg := validConfig()
	cfg.Bucket = "test-invoice-exports"
	cfg.AccessKey = "minioadmin"
	cfg.SecretKey = "minioadmin"

	archive, err := NewS3Archive(cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.NoError(t, archive.EnsureBucket(context.Background()))
	return archive
}

func TestIntegration_StoreAndGet(t *testing.T) {
	archive := newIntegrationArchive(t)
	ctx := context.Background()
	data := []byte("%PDF-1.4\n%integration\n")

	result, err := archive.Store(ctx, &printing.StoreRequest{
		JobID:    uuid.New(),
		FileName: "Invoice_INV-7.pdf",
		PDFData:  data,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), result.Size)
	assert.NotEmpty(t, result.URL)

	rc, err := archive.Get(ctx, result.Key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	// A second call must not fail once the bucket exists
	require.NoError(t, archive.EnsureBucket(ctx))
}
