// Package gcs reads a CSV export of the ledger worksheet from Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectReader provides an interface for reading whole objects from a bucket.
// This interface enables mocking and testing of storage functionality.
type ObjectReader interface {
	ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error)
}

// GCSClient is the concrete ObjectReader backed by Google Cloud Storage.
// It holds one storage client for the life of the process.
type GCSClient struct {
	client *storage.Client
}

// NewGCSClient creates a storage client using Application Default Credentials
// unless opts say otherwise.
func NewGCSClient(ctx context.Context, opts ...option.ClientOption) (*GCSClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSClient: creating storage client: %w", err)
	}
	return &GCSClient{client: client}, nil
}

// ReadObject downloads the object bytes.
func (c *GCSClient) ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := c.client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReadObject: reading object %s/%s: %w", bucketName, objectName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ReadObject: reading bytes: %w", err)
	}

	return data, nil
}

// Close releases the storage client.
func (c *GCSClient) Close() error {
	return c.client.Close()
}

// ParseGCSURI splits "gs://bucket/path/to/file.csv" into bucket and object name.
func ParseGCSURI(gcsURI string) (string, string, error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}

	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}

	return parts[0], parts[1], nil
}
