package mediastore

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

type Config struct {
	Mode Mode

	// local
	Root          string
	PublicBaseURL string

	// gcs, gcs_emulator
	Bucket       string
	CDNDomain    string
	EmulatorHost string
}

func ParseMode(raw string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "":
		return ModeLocal, nil
	case ModeLocal, ModeGCS, ModeGCSEmulator:
		return m, nil
	default:
		return "", fmt.Errorf("invalid MEDIA_STORAGE_MODE=%q (allowed: %q, %q, %q)", raw, ModeLocal, ModeGCS, ModeGCSEmulator)
	}
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeLocal:
		if strings.TrimSpace(c.Root) == "" {
			return fmt.Errorf("local media storage requires MEDIA_ROOT")
		}
	case ModeGCS:
		if strings.TrimSpace(c.Bucket) == "" {
			return fmt.Errorf("MEDIA_STORAGE_MODE=%q requires MEDIA_GCS_BUCKET", c.Mode)
		}
	case ModeGCSEmulator:
		if strings.TrimSpace(c.Bucket) == "" {
			return fmt.Errorf("MEDIA_STORAGE_MODE=%q requires MEDIA_GCS_BUCKET", c.Mode)
		}
		u, err := url.Parse(strings.TrimSpace(c.EmulatorHost))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", c.EmulatorHost)
		}
	default:
		return fmt.Errorf("unsupported media storage mode %q", c.Mode)
	}
	return nil
}
