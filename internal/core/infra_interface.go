package core

import (
	"context"
	"io"
)

// ObjectClient reads source documents from S3 or any compatible object storage.
type ObjectClient interface {
	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
