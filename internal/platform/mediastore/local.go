package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type localStore struct {
	log        *logger.Logger
	root       string
	publicBase string
}

func NewLocalStore(root, publicBaseURL string, log *logger.Logger) (Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	publicBase := strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")
	if publicBase == "" {
		publicBase = "/uploads"
	}
	storeLog := log.With("service", "MediaStore", "mode", ModeLocal)
	storeLog.Info("Local media storage initialized", "root", abs, "public_base_url", publicBase)
	return &localStore{log: storeLog, root: abs, publicBase: publicBase}, nil
}

func (s *localStore) Mode() Mode { return ModeLocal }

// Root is the directory served for public URLs.
func (s *localStore) Root() string { return s.root }

func (s *localStore) pathFor(key string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(k)), nil
}

// Put writes through a temp file so readers never observe a partial object.
func (s *localStore) Put(ctx context.Context, key string, r io.Reader) error {
	p, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write media object %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close media object %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("publish media object %q: %w", key, err)
	}
	return nil
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	p, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete media object %q: %w", key, err)
	}
	return nil
}

func (s *localStore) PublicURL(key string) string {
	k, err := CleanKey(key)
	if err != nil {
		return ""
	}
	return s.publicBase + "/" + k
}
