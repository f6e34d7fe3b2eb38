package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
	"github.com/yungbote/fotherbys-backend/internal/platform/mediastore"
)

var newMediaStore = mediastore.New

type MediaBootstrapErrorCode string

const (
	MediaBootstrapErrorInvalidMode         MediaBootstrapErrorCode = "invalid_mode"
	MediaBootstrapErrorMissingBucket       MediaBootstrapErrorCode = "missing_bucket"
	MediaBootstrapErrorMissingEmulatorHost MediaBootstrapErrorCode = "missing_emulator_host"
	MediaBootstrapErrorInvalidEmulatorHost MediaBootstrapErrorCode = "invalid_emulator_host"
	MediaBootstrapErrorConnectFailed       MediaBootstrapErrorCode = "connect_failed"
)

type MediaBootstrapError struct {
	Code         MediaBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *MediaBootstrapError) Error() string {
	if e == nil {
		return "media storage bootstrap failed"
	}
	return fmt.Sprintf(
		"media storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *MediaBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func mediaStoreConfig(cfg Config) (mediastore.Config, error) {
	mode, err := mediastore.ParseMode(cfg.MediaMode)
	if err != nil {
		return mediastore.Config{Mode: mediastore.Mode(cfg.MediaMode), EmulatorHost: cfg.EmulatorHost}, err
	}
	return mediastore.Config{
		Mode:          mode,
		Root:          strings.TrimSpace(cfg.MediaRoot),
		PublicBaseURL: strings.TrimSpace(cfg.MediaPublicBaseURL),
		Bucket:        strings.TrimSpace(cfg.MediaBucket),
		CDNDomain:     strings.TrimSpace(cfg.MediaCDNDomain),
		EmulatorHost:  strings.TrimSpace(cfg.EmulatorHost),
	}, nil
}

func resolveMediaStore(ctx context.Context, log *logger.Logger, cfg Config) (mediastore.Store, error) {
	storeCfg, err := mediaStoreConfig(cfg)
	if err != nil {
		classified := &MediaBootstrapError{
			Code:         MediaBootstrapErrorInvalidMode,
			Mode:         string(storeCfg.Mode),
			EmulatorHost: storeCfg.EmulatorHost,
			Cause:        err,
		}
		log.Error("Media storage selection failed", "mode", storeCfg.Mode, "error_code", classified.Code, "error", err)
		return nil, classified
	}

	log.Info(
		"Selecting media storage",
		"mode", storeCfg.Mode,
		"root", storeCfg.Root,
		"bucket", storeCfg.Bucket,
		"emulator_host", storeCfg.EmulatorHost,
	)

	store, err := newMediaStore(ctx, storeCfg, log)
	if err != nil {
		classified := classifyMediaBootstrapError(storeCfg, err)
		log.Error(
			"Media storage bootstrap failed",
			"mode", storeCfg.Mode,
			"emulator_host", storeCfg.EmulatorHost,
			"error_code", mediaBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return store, nil
}

func classifyMediaBootstrapError(storeCfg mediastore.Config, err error) error {
	var already *MediaBootstrapError
	if errors.As(err, &already) {
		return err
	}
	code := MediaBootstrapErrorConnectFailed
	switch storeCfg.Mode {
	case mediastore.ModeLocal:
	case mediastore.ModeGCS, mediastore.ModeGCSEmulator:
		host := strings.TrimSpace(storeCfg.EmulatorHost)
		switch {
		case strings.TrimSpace(storeCfg.Bucket) == "":
			code = MediaBootstrapErrorMissingBucket
		case storeCfg.Mode == mediastore.ModeGCSEmulator && host == "":
			code = MediaBootstrapErrorMissingEmulatorHost
		case storeCfg.Mode == mediastore.ModeGCSEmulator && !absoluteURL(host):
			code = MediaBootstrapErrorInvalidEmulatorHost
		}
	default:
		code = MediaBootstrapErrorInvalidMode
	}
	return &MediaBootstrapError{
		Code:         code,
		Mode:         string(storeCfg.Mode),
		EmulatorHost: storeCfg.EmulatorHost,
		Cause:        err,
	}
}

func mediaBootstrapErrorCode(err error) MediaBootstrapErrorCode {
	var bootstrapErr *MediaBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr != nil {
		return bootstrapErr.Code
	}
	return MediaBootstrapErrorConnectFailed
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// uploadsDir is the directory served at /uploads, empty unless media lives on local disk.
func uploadsDir(store mediastore.Store) string {
	if store == nil || store.Mode() != mediastore.ModeLocal {
		return ""
	}
	if rooted, ok := store.(interface{ Root() string }); ok {
		return rooted.Root()
	}
	return ""
}
