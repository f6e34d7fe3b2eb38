package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type LotFilter struct {
	AuctionID *uuid.UUID
	SellerID  *uuid.UUID
	Status    types.LotStatus
	Artist    string
	Category  string

	ArchivedOnly bool
	// AnyArchive disables the archive filter entirely.
	AnyArchive bool
}

type CatalogueQuery struct {
	Text        string
	Location    types.Location
	AuctionType types.AuctionType
	Category    string
	AuctionDate *time.Time
}

type LotRepo interface {
	Create(dbc dbctx.Context, rows []*types.Lot) ([]*types.Lot, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lot, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lot, error)
	List(dbc dbctx.Context, filter LotFilter) ([]*types.Lot, error)
	ListListedByAuction(dbc dbctx.Context, auctionID uuid.UUID) ([]*types.Lot, error)
	Search(dbc dbctx.Context, q CatalogueQuery) ([]*types.Lot, error)
	Categories(dbc dbctx.Context) ([]string, error)
	ReferenceExists(dbc dbctx.Context, reference string) (bool, error)
	CountByAuctionID(dbc dbctx.Context, auctionID uuid.UUID) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type lotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLotRepo(db *gorm.DB, baseLog *logger.Logger) LotRepo {
	return &lotRepo{db: db, log: baseLog.With("repo", "LotRepo")}
}

func (r *lotRepo) Create(dbc dbctx.Context, rows []*types.Lot) ([]*types.Lot, error) {
	if len(rows) == 0 {
		return []*types.Lot{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lotRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lot, error) {
	var out []*types.Lot
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lotRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lot, error) {
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

func likePattern(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	return "%" + s + "%"
}

func (r *lotRepo) List(dbc dbctx.Context, filter LotFilter) ([]*types.Lot, error) {
	q := dbc.DB(r.db).Model(&types.Lot{})
	if !filter.AnyArchive {
		q = q.Where("is_archived = ?", filter.ArchivedOnly)
	}
	if filter.AuctionID != nil {
		q = q.Where("auction_id = ?", *filter.AuctionID)
	}
	if filter.SellerID != nil {
		q = q.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if strings.TrimSpace(filter.Artist) != "" {
		q = q.Where(`LOWER(artist) LIKE ? ESCAPE '\'`, likePattern(filter.Artist))
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	var out []*types.Lot
	if err := q.Order("created_at DESC").Order("lot_reference DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListListedByAuction returns the lots that belong in an auction's printed catalogue.
func (r *lotRepo) ListListedByAuction(dbc dbctx.Context, auctionID uuid.UUID) ([]*types.Lot, error) {
	var out []*types.Lot
	if err := dbc.DB(r.db).
		Where("auction_id = ? AND status = ? AND is_archived = ?", auctionID, types.LotStatusListed, false).
		Order("lot_reference ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Search covers public catalogue browsing: listed lots in live (non-archived) auctions, soonest sale first.
func (r *lotRepo) Search(dbc dbctx.Context, cq CatalogueQuery) ([]*types.Lot, error) {
	q := dbc.DB(r.db).
		Model(&types.Lot{}).
		Select("lots.*").
		Joins("JOIN auctions ON auctions.id = lots.auction_id").
		Where("lots.status = ? AND lots.is_archived = ? AND auctions.is_archived = ?", types.LotStatusListed, false, false)
	if strings.TrimSpace(cq.Text) != "" {
		p := likePattern(cq.Text)
		q = q.Where(
			`(LOWER(lots.artist) LIKE ? ESCAPE '\' OR LOWER(lots.title) LIKE ? ESCAPE '\' OR LOWER(lots.description) LIKE ? ESCAPE '\')`,
			p, p, p,
		)
	}
	if cq.Location != "" {
		q = q.Where("auctions.location = ?", cq.Location)
	}
	if cq.AuctionType != "" {
		q = q.Where("auctions.auction_type = ?", cq.AuctionType)
	}
	if c := strings.TrimSpace(cq.Category); c != "" {
		q = q.Where("lots.category = ?", c)
	}
	if cq.AuctionDate != nil {
		q = q.Where("auctions.auction_date = ?", types.DateOf(*cq.AuctionDate))
	}
	var out []*types.Lot
	if err := q.Order("auctions.auction_date ASC").Order("lots.lot_reference ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lotRepo) Categories(dbc dbctx.Context) ([]string, error) {
	var out []string
	if err := dbc.DB(r.db).
		Model(&types.Lot{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lotRepo) ReferenceExists(dbc dbctx.Context, reference string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Lot{}).
		Where("lot_reference = ?", strings.TrimSpace(reference)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *lotRepo) CountByAuctionID(dbc dbctx.Context, auctionID uuid.UUID) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Lot{}).
		Where("auction_id = ?", auctionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lotRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Lot{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the lot and its image rows. Callers run it inside a transaction.
func (r *lotRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("lot_id = ?", id).Delete(&types.LotImage{}).Error; err != nil {
		return err
	}
	return t.Where("id = ?", id).Delete(&types.Lot{}).Error
}
