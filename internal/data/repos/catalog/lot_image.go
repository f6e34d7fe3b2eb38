package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type LotImageRepo interface {
	Create(dbc dbctx.Context, rows []*types.LotImage) ([]*types.LotImage, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LotImage, error)
	ListByLotIDs(dbc dbctx.Context, lotIDs []uuid.UUID) ([]*types.LotImage, error)
	CountByLotID(dbc dbctx.Context, lotID uuid.UUID) (int64, error)
	ClearPrimary(dbc dbctx.Context, lotID uuid.UUID) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type lotImageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLotImageRepo(db *gorm.DB, baseLog *logger.Logger) LotImageRepo {
	return &lotImageRepo{db: db, log: baseLog.With("repo", "LotImageRepo")}
}

func (r *lotImageRepo) Create(dbc dbctx.Context, rows []*types.LotImage) ([]*types.LotImage, error) {
	if len(rows) == 0 {
		return []*types.LotImage{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lotImageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.LotImage, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.LotImage
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ListByLotIDs returns images grouped by lot in display order.
func (r *lotImageRepo) ListByLotIDs(dbc dbctx.Context, lotIDs []uuid.UUID) ([]*types.LotImage, error) {
	var out []*types.LotImage
	if len(lotIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("lot_id IN ?", lotIDs).
		Order("lot_id ASC").
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lotImageRepo) CountByLotID(dbc dbctx.Context, lotID uuid.UUID) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.LotImage{}).
		Where("lot_id = ?", lotID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lotImageRepo) ClearPrimary(dbc dbctx.Context, lotID uuid.UUID) error {
	return dbc.DB(r.db).
		Model(&types.LotImage{}).
		Where("lot_id = ? AND is_primary = ?", lotID, true).
		Update("is_primary", false).Error
}

func (r *lotImageRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.LotImage{}).Error
}
