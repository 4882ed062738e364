package ports

import (
	"context"
	"io"
)

// ImageStore persists uploaded cat images under server-assigned names.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, name string) error
}
