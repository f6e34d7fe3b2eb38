package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type AuctionFilter struct {
	ArchivedOnly bool
}

type AuctionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Auction) ([]*types.Auction, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Auction, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Auction, error)
	List(dbc dbctx.Context, filter AuctionFilter) ([]*types.Auction, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetArchived(dbc dbctx.Context, id uuid.UUID, archived bool) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type auctionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuctionRepo(db *gorm.DB, baseLog *logger.Logger) AuctionRepo {
	return &auctionRepo{db: db, log: baseLog.With("repo", "AuctionRepo")}
}

func (r *auctionRepo) Create(dbc dbctx.Context, rows []*types.Auction) ([]*types.Auction, error) {
	if len(rows) == 0 {
		return []*types.Auction{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *auctionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Auction, error) {
	var out []*types.Auction
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auctionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Auction, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// List returns newest auctions first. Archived auctions are only returned when ArchivedOnly is set.
func (r *auctionRepo) List(dbc dbctx.Context, filter AuctionFilter) ([]*types.Auction, error) {
	var out []*types.Auction
	if err := dbc.DB(r.db).
		Where("is_archived = ?", filter.ArchivedOnly).
		Order("auction_date DESC").
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auctionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Auction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *auctionRepo) SetArchived(dbc dbctx.Context, id uuid.UUID, archived bool) error {
	return r.UpdateFields(dbc, id, map[string]interface{}{"is_archived": archived})
}

func (r *auctionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Auction{}).Error
}
