package object

import (
	"context"
	"io"
)

// Store saves and reads back binary objects such as downloaded reports.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Location is a human-readable address of key, such as a file path or s3:// URL.
	Location(key string) string
}
