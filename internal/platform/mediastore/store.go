package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

// ErrNotFound is returned by Open when the key does not exist.
var ErrNotFound = errors.New("media object not found")

// Store persists uploaded images and rendered catalogues under slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	Mode() Mode
}

func New(ctx context.Context, cfg Config, log *logger.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeLocal:
		return NewLocalStore(cfg.Root, cfg.PublicBaseURL, log)
	case ModeGCS, ModeGCSEmulator:
		return NewGCSStore(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unsupported media storage mode %q", cfg.Mode)
}

// CleanKey rejects absolute keys and parent traversal.
func CleanKey(key string) (string, error) {
	k := strings.TrimSpace(strings.ReplaceAll(key, `\`, "/"))
	k = strings.TrimLeft(k, "/")
	if k == "" {
		return "", fmt.Errorf("empty media key")
	}
	cleaned := path.Clean(k)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return cleaned, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename keeps the base name of an uploaded file, replacing anything unusual with '_'.
func SanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		base = ""
	}
	base = strings.Trim(unsafeFilenameChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "upload"
	}
	if len(base) > 120 {
		ext := path.Ext(base)
		if len(ext) > 10 {
			ext = ""
		}
		base = base[:120-len(ext)] + ext
	}
	return base
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(s, ".tif"), strings.HasSuffix(s, ".tiff"):
		return "image/tiff"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
