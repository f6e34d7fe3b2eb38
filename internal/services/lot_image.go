package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/access"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/imaging"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
	"github.com/yungbote/fotherbys-backend/internal/platform/mediastore"
)

// MaxImageUploadBytes caps a single multipart image upload.
const MaxImageUploadBytes = 20 << 20

type ImageUpload struct {
	Filename     string
	Data         []byte
	IsPrimary    bool
	DisplayOrder *int
}

type LotImageService interface {
	Upload(ctx context.Context, lotID uuid.UUID, in ImageUpload) (*types.LotImage, error)
	List(ctx context.Context, lotID uuid.UUID) ([]*types.LotImage, error)
	Delete(ctx context.Context, imageID uuid.UUID) error
}

type lotImageService struct {
	db        db.TxRunner
	log       *logger.Logger
	lotRepo   repos.LotRepo
	imageRepo repos.LotImageRepo
	media     mediastore.Store
}

func NewLotImageService(tx db.TxRunner, log *logger.Logger, lotRepo repos.LotRepo, imageRepo repos.LotImageRepo, media mediastore.Store) LotImageService {
	return &lotImageService{
		db:        tx,
		log:       log.With("service", "LotImageService"),
		lotRepo:   lotRepo,
		imageRepo: imageRepo,
		media:     media,
	}
}

func LotImageKey(lotID uuid.UUID, filename string) string {
	return fmt.Sprintf("lots/%s_%s", lotID, filename)
}

func LotThumbnailKey(lotID uuid.UUID, filename string) string {
	return fmt.Sprintf("lots/thumbnails/%s_thumb_%s", lotID, filename)
}

func (s *lotImageService) Upload(ctx context.Context, lotID uuid.UUID, in ImageUpload) (*types.LotImage, error) {
	const op = "lot.image.upload"
	if err := access.Authorize(actorFrom(ctx), access.LotImageUpload, access.Resource{}); err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, types.InvalidArgument(op, "file is empty")
	}
	if len(in.Data) > MaxImageUploadBytes {
		return nil, types.InvalidArgument(op, "file exceeds %d MiB", MaxImageUploadBytes>>20)
	}
	if in.DisplayOrder != nil && *in.DisplayOrder < 0 {
		return nil, types.InvalidArgument(op, "display_order must not be negative")
	}
	if _, _, err := imaging.Dimensions(in.Data); err != nil {
		return nil, types.InvalidArgument(op, "file is not a supported image")
	}

	dbc := dbctx.New(ctx)
	lot, err := s.lotRepo.GetByID(dbc, lotID)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if lot == nil {
		return nil, types.NotFound(op, "lot not found")
	}
	existing, err := s.imageRepo.ListByLotIDs(dbc, []uuid.UUID{lotID})
	if err != nil {
		return nil, db.MapError(op, err)
	}

	filename := mediastore.SanitizeFilename(in.Filename)
	key := LotImageKey(lotID, filename)
	for _, img := range existing {
		if img.StorageKey == key {
			filename = uuid.NewString()[:8] + "_" + filename
			key = LotImageKey(lotID, filename)
			break
		}
	}
	if err := s.media.Put(ctx, key, bytes.NewReader(in.Data)); err != nil {
		return nil, types.NewError(types.CodeInternal, op, "failed to store image", err)
	}
	stored := []string{key}

	img := &types.LotImage{
		LotID:      lotID,
		ImageURL:   s.media.PublicURL(key),
		StorageKey: key,
		IsPrimary:  in.IsPrimary,
	}
	// A missing thumbnail never fails the upload.
	if thumb, err := imaging.Thumbnail(in.Data); err != nil {
		s.log.Warn("Thumbnail generation failed (ignored)", "lot_id", lotID, "key", key, "error", err)
	} else {
		thumbKey := LotThumbnailKey(lotID, filename)
		if err := s.media.Put(ctx, thumbKey, bytes.NewReader(thumb)); err != nil {
			s.log.Warn("Thumbnail upload failed (ignored)", "lot_id", lotID, "key", thumbKey, "error", err)
		} else {
			thumbURL := s.media.PublicURL(thumbKey)
			img.ThumbnailKey = &thumbKey
			img.ThumbnailURL = &thumbURL
			stored = append(stored, thumbKey)
		}
	}

	err = s.db.InTx(ctx, func(dbc dbctx.Context) error {
		if in.DisplayOrder != nil {
			img.DisplayOrder = *in.DisplayOrder
		} else {
			n, err := s.imageRepo.CountByLotID(dbc, lotID)
			if err != nil {
				return db.MapError(op, err)
			}
			img.DisplayOrder = int(n)
		}
		if img.IsPrimary {
			if err := s.imageRepo.ClearPrimary(dbc, lotID); err != nil {
				return db.MapError(op, err)
			}
		}
		if _, err := s.imageRepo.Create(dbc, []*types.LotImage{img}); err != nil {
			return db.MapError(op, err)
		}
		return nil
	})
	if err != nil {
		for _, k := range stored {
			if derr := s.media.Delete(context.WithoutCancel(ctx), k); derr != nil {
				s.log.Warn("Failed to remove orphaned upload", "key", k, "error", derr)
			}
		}
		return nil, err
	}
	s.log.Info("Lot image uploaded", "lot_id", lotID, "image_id", img.ID, "primary", img.IsPrimary, "thumbnail", img.ThumbnailURL != nil)
	return img, nil
}

func (s *lotImageService) List(ctx context.Context, lotID uuid.UUID) ([]*types.LotImage, error) {
	const op = "lot.image.list"
	dbc := dbctx.New(ctx)
	lot, err := s.lotRepo.GetByID(dbc, lotID)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if lot == nil {
		return nil, types.NotFound(op, "lot not found")
	}
	images, err := s.imageRepo.ListByLotIDs(dbc, []uuid.UUID{lotID})
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if images == nil {
		images = []*types.LotImage{}
	}
	return images, nil
}

func (s *lotImageService) Delete(ctx context.Context, imageID uuid.UUID) error {
	const op = "lot.image.delete"
	if err := access.Authorize(actorFrom(ctx), access.LotImageDelete, access.Resource{}); err != nil {
		return err
	}
	var img *types.LotImage
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		img, err = s.imageRepo.GetByID(dbc, imageID)
		if err != nil {
			return db.MapError(op, err)
		}
		if img == nil {
			return types.NotFound(op, "image not found")
		}
		return db.MapError(op, s.imageRepo.Delete(dbc, imageID))
	})
	if err != nil {
		return err
	}
	keys := []string{img.StorageKey}
	if img.ThumbnailKey != nil {
		keys = append(keys, *img.ThumbnailKey)
	}
	for _, k := range keys {
		if err := s.media.Delete(context.WithoutCancel(ctx), k); err != nil {
			s.log.Warn("Failed to delete media object (ignored)", "key", k, "error", err)
		}
	}
	s.log.Info("Lot image deleted", "lot_id", img.LotID, "image_id", imageID)
	return nil
}
