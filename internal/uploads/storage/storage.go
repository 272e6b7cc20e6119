package storage

import (
	"context"
	"io"
)

// ImageStore turns uploaded image bytes into a URL a project can embed as its
// imageUrl. Implementations own retention; callers never see the bytes again.
type ImageStore interface {
	Save(ctx context.Context, field, filename, contentType string, r io.Reader) (string, error)
}
