package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/access"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type AuctionInput struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	AuctionDate string `json:"auction_date"`
	StartTime   string `json:"start_time"`
	AuctionType string `json:"auction_type"`
	Theme       string `json:"theme"`
}

// AuctionPatch carries only the fields a caller supplied.
type AuctionPatch struct {
	Title       *string `json:"title"`
	Location    *string `json:"location"`
	AuctionDate *string `json:"auction_date"`
	StartTime   *string `json:"start_time"`
	AuctionType *string `json:"auction_type"`
	Theme       *string `json:"theme"`
}

func (p AuctionPatch) Empty() bool {
	return p.Title == nil && p.Location == nil && p.AuctionDate == nil &&
		p.StartTime == nil && p.AuctionType == nil && p.Theme == nil
}

type AuctionListFilter struct {
	Status       types.AuctionStatus
	ArchivedOnly bool
}

type AuctionService interface {
	Create(ctx context.Context, in AuctionInput) (AuctionView, error)
	List(ctx context.Context, filter AuctionListFilter) ([]AuctionView, error)
	Get(ctx context.Context, id uuid.UUID) (AuctionView, error)
	Update(ctx context.Context, id uuid.UUID, patch AuctionPatch) (AuctionView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) (AuctionView, error)
}

type auctionService struct {
	db          db.TxRunner
	log         *logger.Logger
	auctionRepo repos.AuctionRepo
	lotRepo     repos.LotRepo
	clock       Clock
}

func NewAuctionService(tx db.TxRunner, log *logger.Logger, auctionRepo repos.AuctionRepo, lotRepo repos.LotRepo, clock Clock) AuctionService {
	return &auctionService{
		db:          tx,
		log:         log.With("service", "AuctionService"),
		auctionRepo: auctionRepo,
		lotRepo:     lotRepo,
		clock:       clock,
	}
}

func (s *auctionService) Create(ctx context.Context, in AuctionInput) (AuctionView, error) {
	const op = "auction.create"
	if err := access.Authorize(actorFrom(ctx), access.AuctionCreate, access.Resource{}); err != nil {
		return AuctionView{}, err
	}
	a := &types.Auction{AuctionType: types.AuctionTypePhysical}
	patch := AuctionPatch{
		Title:       &in.Title,
		Location:    &in.Location,
		AuctionDate: &in.AuctionDate,
		StartTime:   &in.StartTime,
		Theme:       &in.Theme,
	}
	if strings.TrimSpace(in.AuctionType) != "" {
		patch.AuctionType = &in.AuctionType
	}
	if _, err := applyAuctionPatch(op, a, patch); err != nil {
		return AuctionView{}, err
	}
	if _, err := s.auctionRepo.Create(dbctx.New(ctx), []*types.Auction{a}); err != nil {
		return AuctionView{}, db.MapError(op, err)
	}
	s.log.Info("Auction created", "auction_id", a.ID, "auction_date", types.FormatDate(a.AuctionDate))
	return NewAuctionView(a, s.clock.today()), nil
}

// applyAuctionPatch validates the supplied fields, applies them to a and returns the column updates.
func applyAuctionPatch(op string, a *types.Auction, p AuctionPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, types.InvalidArgument(op, "title is required")
		}
		a.Title = title
		updates["title"] = title
	}
	if p.Location != nil {
		loc, ok := types.ParseLocation(*p.Location)
		if !ok {
			return nil, types.InvalidArgument(op, "location must be one of London, Paris, New York")
		}
		a.Location = loc
		updates["location"] = loc
	}
	if p.AuctionDate != nil {
		d, err := types.ParseDate(*p.AuctionDate)
		if err != nil {
			return nil, types.InvalidArgument(op, "auction_date must be a YYYY-MM-DD date")
		}
		a.AuctionDate = types.DateOf(d)
		updates["auction_date"] = a.AuctionDate
	}
	if p.StartTime != nil {
		st, ok := types.ParseStartTime(*p.StartTime)
		if !ok {
			return nil, types.InvalidArgument(op, "start_time must be one of %s", strings.Join(types.StartTimes, ", "))
		}
		a.StartTime = st
		updates["start_time"] = st
	}
	if p.AuctionType != nil {
		at, ok := types.ParseAuctionType(*p.AuctionType)
		if !ok {
			return nil, types.InvalidArgument(op, "auction_type must be Physical or Online")
		}
		a.AuctionType = at
		updates["auction_type"] = at
	}
	if p.Theme != nil {
		a.Theme = strings.TrimSpace(*p.Theme)
		updates["theme"] = a.Theme
	}
	return updates, nil
}

func (s *auctionService) List(ctx context.Context, filter AuctionListFilter) ([]AuctionView, error) {
	rows, err := s.auctionRepo.List(dbctx.New(ctx), repos.AuctionFilter{ArchivedOnly: filter.ArchivedOnly})
	if err != nil {
		return nil, db.MapError("auction.list", err)
	}
	today := s.clock.today()
	out := make([]AuctionView, 0, len(rows))
	for _, a := range rows {
		v := NewAuctionView(a, today)
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *auctionService) load(dbc dbctx.Context, op string, id uuid.UUID) (*types.Auction, error) {
	a, err := s.auctionRepo.GetByID(dbc, id)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if a == nil {
		return nil, types.NotFound(op, "auction not found")
	}
	return a, nil
}

func (s *auctionService) Get(ctx context.Context, id uuid.UUID) (AuctionView, error) {
	a, err := s.load(dbctx.New(ctx), "auction.get", id)
	if err != nil {
		return AuctionView{}, err
	}
	return NewAuctionView(a, s.clock.today()), nil
}

func (s *auctionService) Update(ctx context.Context, id uuid.UUID, patch AuctionPatch) (AuctionView, error) {
	const op = "auction.update"
	if err := access.Authorize(actorFrom(ctx), access.AuctionUpdate, access.Resource{}); err != nil {
		return AuctionView{}, err
	}
	if patch.Empty() {
		return AuctionView{}, types.InvalidArgument(op, "no fields to update")
	}
	var out *types.Auction
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		a, err := s.load(dbc, op, id)
		if err != nil {
			return err
		}
		updates, err := applyAuctionPatch(op, a, patch)
		if err != nil {
			return err
		}
		if err := s.auctionRepo.UpdateFields(dbc, id, updates); err != nil {
			return db.MapError(op, err)
		}
		out = a
		return nil
	})
	if err != nil {
		return AuctionView{}, err
	}
	return NewAuctionView(out, s.clock.today()), nil
}

func (s *auctionService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "auction.delete"
	if err := access.Authorize(actorFrom(ctx), access.AuctionDelete, access.Resource{}); err != nil {
		return err
	}
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := s.load(dbc, op, id); err != nil {
			return err
		}
		n, err := s.lotRepo.CountByAuctionID(dbc, id)
		if err != nil {
			return db.MapError(op, err)
		}
		if n > 0 {
			return types.Conflict(op, "auction has %d lot(s) assigned; archive it instead", n)
		}
		return db.MapError(op, s.auctionRepo.Delete(dbc, id))
	})
	if err != nil {
		return err
	}
	s.log.Info("Auction deleted", "auction_id", id)
	return nil
}

func (s *auctionService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (AuctionView, error) {
	const op = "auction.archive"
	if err := access.Authorize(actorFrom(ctx), access.AuctionArchive, access.Resource{}); err != nil {
		return AuctionView{}, err
	}
	var out *types.Auction
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		a, err := s.load(dbc, op, id)
		if err != nil {
			return err
		}
		if err := s.auctionRepo.SetArchived(dbc, id, archived); err != nil {
			return db.MapError(op, err)
		}
		a.IsArchived = archived
		out = a
		return nil
	})
	if err != nil {
		return AuctionView{}, err
	}
	s.log.Info("Auction archive flag changed", "auction_id", id, "archived", archived)
	return NewAuctionView(out, s.clock.today()), nil
}
