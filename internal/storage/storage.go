package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the durable home for submission images. Put must
// complete before the returned URL is referenced anywhere; Delete is
// the compensating action when a step after Put fails.
type BlobStore interface {
	// Put writes body under key and returns the public URL.
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewObjectKey builds a collision-resistant object name for an
// uploaded image: submission-<unix millis>-<random suffix><ext>.
// A missing extension defaults to .jpg.
func NewObjectKey(originalExt string) string {
	ext := strings.ToLower(strings.TrimSpace(originalExt))
	if ext == "" {
		ext = ".jpg"
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("submission-%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
