package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	"github.com/JakeFAU/leetstats/internal/tracker"
)

// GCSConfig captures the parameters required to mirror the store to GCS.
type GCSConfig struct {
	Bucket string
	Object string
}

// GCSMirror uploads a copy of every store write to a GCS object.
type GCSMirror struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSMirror creates a GCS-backed replica.
func NewGCSMirror(client *storage.Client, cfg GCSConfig) (*GCSMirror, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if strings.TrimSpace(cfg.Object) == "" {
		return nil, fmt.Errorf("object name is required")
	}
	return &GCSMirror{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
	}, nil
}

// URI returns the gs:// location of the mirrored object.
func (m *GCSMirror) URI() string {
	return fmt.Sprintf("gs://%s/%s", m.bucket, m.object)
}

// Save uploads the encoded store.
func (m *GCSMirror) Save(ctx context.Context, data tracker.HistoricalData) error {
	encoded, err := Encode(data)
	if err != nil {
		return err
	}
	writer := m.client.Bucket(m.bucket).Object(m.object).NewWriter(ctx)
	writer.ContentType = ContentType
	if _, err := io.Copy(writer, bytes.NewReader(encoded)); err != nil {
		closeErr := writer.Close()
		if closeErr != nil {
			return fmt.Errorf("copy object: %w (close writer: %v)", err, closeErr)
		}
		return fmt.Errorf("copy object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}
