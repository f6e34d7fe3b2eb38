package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/access"
	"github.com/yungbote/fotherbys-backend/internal/modules/valuation"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
	"github.com/yungbote/fotherbys-backend/internal/platform/mediastore"
)

type LotInput struct {
	LotReference   string     `json:"lot_reference"`
	Artist         string     `json:"artist"`
	Title          string     `json:"title"`
	Year           *int       `json:"year"`
	Category       string     `json:"category"`
	Dimensions     string     `json:"dimensions"`
	Framing        string     `json:"framing"`
	Material       string     `json:"material"`
	Description    string     `json:"description"`
	EstimateLow    *float64   `json:"estimate_low"`
	EstimateHigh   *float64   `json:"estimate_high"`
	ReservePrice   *float64   `json:"reserve_price"`
	CommissionBids bool       `json:"commission_bids"`
	TriageStatus   string     `json:"triage_status"`
	SellerID       *uuid.UUID `json:"seller_id"`
}

// LotPatch carries only the fields a caller supplied.
type LotPatch struct {
	LotReference   *string  `json:"lot_reference"`
	Artist         *string  `json:"artist"`
	Title          *string  `json:"title"`
	Year           *int     `json:"year"`
	Category       *string  `json:"category"`
	Dimensions     *string  `json:"dimensions"`
	Framing        *string  `json:"framing"`
	Material       *string  `json:"material"`
	Description    *string  `json:"description"`
	EstimateLow    *float64 `json:"estimate_low"`
	EstimateHigh   *float64 `json:"estimate_high"`
	ReservePrice   *float64 `json:"reserve_price"`
	CommissionBids *bool    `json:"commission_bids"`
	TriageStatus   *string  `json:"triage_status"`
	Status         *string  `json:"status"`
}

func (p LotPatch) Empty() bool {
	return p.LotReference == nil && p.Artist == nil && p.Title == nil && p.Year == nil &&
		p.Category == nil && p.Dimensions == nil && p.Framing == nil && p.Material == nil &&
		p.Description == nil && p.EstimateLow == nil && p.EstimateHigh == nil &&
		p.ReservePrice == nil && p.CommissionBids == nil && p.TriageStatus == nil && p.Status == nil
}

type LotListFilter struct {
	AuctionID    *uuid.UUID
	Status       string
	Artist       string
	Category     string
	ArchivedOnly bool
}

type SaleInput struct {
	HammerPrice float64    `json:"hammer_price"`
	BuyerID     *uuid.UUID `json:"buyer_id"`
}

type WithdrawResult struct {
	Message       string  `json:"message"`
	WithdrawalFee float64 `json:"withdrawal_fee"`
	Lot           LotView `json:"lot"`
}

type SaleResult struct {
	Message       string               `json:"message"`
	Lot           LotView              `json:"lot"`
	Settlement    valuation.Settlement `json:"settlement"`
	TransactionID uuid.UUID            `json:"transaction_id"`
}

type LotService interface {
	Create(ctx context.Context, in LotInput) (LotView, error)
	List(ctx context.Context, filter LotListFilter) ([]LotView, error)
	Get(ctx context.Context, id uuid.UUID) (LotView, error)
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]LotView, error)
	Update(ctx context.Context, id uuid.UUID, patch LotPatch) (LotView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignAuction(ctx context.Context, id, auctionID uuid.UUID) (LotView, error)
	Withdraw(ctx context.Context, id uuid.UUID) (WithdrawResult, error)
	CompleteSale(ctx context.Context, id uuid.UUID, in SaleInput) (SaleResult, error)
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) (LotView, error)
	SuggestTriage(estimateLow string) valuation.TriageSuggestion
}

type lotService struct {
	db              db.TxRunner
	log             *logger.Logger
	lotRepo         repos.LotRepo
	auctionRepo     repos.AuctionRepo
	imageRepo       repos.LotImageRepo
	clientRepo      repos.ClientRepo
	transactionRepo repos.TransactionRepo
	media           mediastore.Store
	events          LotEventPublisher
	clock           Clock
}

func NewLotService(
	tx db.TxRunner,
	log *logger.Logger,
	lotRepo repos.LotRepo,
	auctionRepo repos.AuctionRepo,
	imageRepo repos.LotImageRepo,
	clientRepo repos.ClientRepo,
	transactionRepo repos.TransactionRepo,
	media mediastore.Store,
	events LotEventPublisher,
	clock Clock,
) LotService {
	if events == nil {
		events = NewNoopLotEventPublisher()
	}
	return &lotService{
		db:              tx,
		log:             log.With("service", "LotService"),
		lotRepo:         lotRepo,
		auctionRepo:     auctionRepo,
		imageRepo:       imageRepo,
		clientRepo:      clientRepo,
		transactionRepo: transactionRepo,
		media:           media,
		events:          events,
		clock:           clock,
	}
}

func (s *lotService) SuggestTriage(estimateLow string) valuation.TriageSuggestion {
	return valuation.SuggestTriageText(estimateLow)
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func requiredAmount(op, field string, v *float64) (float64, error) {
	if v == nil {
		return 0, types.InvalidArgument(op, "%s is required", field)
	}
	if !validAmount(*v) {
		return 0, types.InvalidArgument(op, "%s must be a non-negative amount", field)
	}
	return valuation.RoundCurrency(*v), nil
}

func (s *lotService) Create(ctx context.Context, in LotInput) (LotView, error) {
	const op = "lot.create"
	actor := actorFrom(ctx)
	if err := access.Authorize(actor, access.LotCreate, access.Resource{}); err != nil {
		return LotView{}, err
	}

	ref := strings.TrimSpace(in.LotReference)
	if ref == "" {
		return LotView{}, types.InvalidArgument(op, "lot_reference is required")
	}
	artist, title := strings.TrimSpace(in.Artist), strings.TrimSpace(in.Title)
	if artist == "" || title == "" {
		return LotView{}, types.InvalidArgument(op, "artist and title are required")
	}
	low, err := requiredAmount(op, "estimate_low", in.EstimateLow)
	if err != nil {
		return LotView{}, err
	}
	high, err := requiredAmount(op, "estimate_high", in.EstimateHigh)
	if err != nil {
		return LotView{}, err
	}
	reserve, err := requiredAmount(op, "reserve_price", in.ReservePrice)
	if err != nil {
		return LotView{}, err
	}
	if low > high {
		return LotView{}, types.InvalidArgument(op, "estimate_low must not exceed estimate_high")
	}
	if in.Year != nil && *in.Year <= 0 {
		return LotView{}, types.InvalidArgument(op, "year must be positive")
	}
	triage := valuation.SuggestTriage(low).Suggested
	if strings.TrimSpace(in.TriageStatus) != "" {
		ts, ok := types.ParseTriageStatus(in.TriageStatus)
		if !ok {
			return LotView{}, types.InvalidArgument(op, "triage_status must be Physical or Online")
		}
		triage = ts
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = types.DefaultCategory
	}

	lot := &types.Lot{
		LotReference:   ref,
		Artist:         artist,
		Title:          title,
		Year:           in.Year,
		Category:       category,
		Dimensions:     strings.TrimSpace(in.Dimensions),
		Framing:        strings.TrimSpace(in.Framing),
		Material:       strings.TrimSpace(in.Material),
		Description:    strings.TrimSpace(in.Description),
		EstimateLow:    low,
		EstimateHigh:   high,
		ReservePrice:   reserve,
		CommissionBids: in.CommissionBids,
		TriageStatus:   triage,
		Status:         types.LotStatusPending,
		SellerID:       actor.ClientID,
	}

	err = s.db.InTx(ctx, func(dbc dbctx.Context) error {
		// Only staff may consign on behalf of another client.
		if actor.IsStaff && in.SellerID != nil && *in.SellerID != uuid.Nil {
			seller, err := s.clientRepo.GetByID(dbc, *in.SellerID)
			if err != nil {
				return db.MapError(op, err)
			}
			if seller == nil {
				return types.InvalidArgument(op, "seller not found")
			}
			lot.SellerID = seller.ID
		}
		exists, err := s.lotRepo.ReferenceExists(dbc, ref)
		if err != nil {
			return db.MapError(op, err)
		}
		if exists {
			return types.InvalidArgument(op, "lot_reference %q already exists", ref)
		}
		if _, err := s.lotRepo.Create(dbc, []*types.Lot{lot}); err != nil {
			return db.MapError(op, err)
		}
		return nil
	})
	if err != nil {
		return LotView{}, err
	}
	s.log.Info("Lot created", "lot_id", lot.ID, "lot_reference", lot.LotReference, "seller_id", lot.SellerID)
	publishLotEvent(ctx, s.events, s.log, types.NewLotEvent(types.LotEventCreated, lot, s.clock.now()))
	return NewLotView(lot, nil, nil), nil
}

// views joins lots with their images (by display order) and auctions.
func (s *lotService) views(dbc dbctx.Context, op string, lots []*types.Lot) ([]LotView, error) {
	return hydrateLots(dbc, op, s.imageRepo, s.auctionRepo, lots)
}

func hydrateLots(dbc dbctx.Context, op string, imageRepo repos.LotImageRepo, auctionRepo repos.AuctionRepo, lots []*types.Lot) ([]LotView, error) {
	out := make([]LotView, 0, len(lots))
	if len(lots) == 0 {
		return out, nil
	}
	lotIDs := make([]uuid.UUID, 0, len(lots))
	auctionIDs := make([]uuid.UUID, 0, len(lots))
	seen := map[uuid.UUID]bool{}
	for _, l := range lots {
		lotIDs = append(lotIDs, l.ID)
		if l.AuctionID != nil && !seen[*l.AuctionID] {
			seen[*l.AuctionID] = true
			auctionIDs = append(auctionIDs, *l.AuctionID)
		}
	}
	images, err := imageRepo.ListByLotIDs(dbc, lotIDs)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	imagesByLot := map[uuid.UUID][]*types.LotImage{}
	for _, img := range images {
		imagesByLot[img.LotID] = append(imagesByLot[img.LotID], img)
	}
	auctions, err := auctionRepo.GetByIDs(dbc, auctionIDs)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	auctionByID := map[uuid.UUID]*types.Auction{}
	for _, a := range auctions {
		auctionByID[a.ID] = a
	}
	for _, l := range lots {
		var a *types.Auction
		if l.AuctionID != nil {
			a = auctionByID[*l.AuctionID]
		}
		out = append(out, NewLotView(l, imagesByLot[l.ID], a))
	}
	return out, nil
}

func (s *lotService) view(dbc dbctx.Context, op string, lot *types.Lot) (LotView, error) {
	vs, err := s.views(dbc, op, []*types.Lot{lot})
	if err != nil {
		return LotView{}, err
	}
	return vs[0], nil
}

func (s *lotService) load(dbc dbctx.Context, op string, id uuid.UUID) (*types.Lot, error) {
	l, err := s.lotRepo.GetByID(dbc, id)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if l == nil {
		return nil, types.NotFound(op, "lot not found")
	}
	return l, nil
}

func (s *lotService) List(ctx context.Context, filter LotListFilter) ([]LotView, error) {
	const op = "lot.list"
	f := repos.LotFilter{
		AuctionID:    filter.AuctionID,
		Artist:       filter.Artist,
		Category:     filter.Category,
		ArchivedOnly: filter.ArchivedOnly,
	}
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		st, ok := types.ParseLotStatus(raw)
		if !ok {
			return nil, types.InvalidArgument(op, "unknown lot status %q", raw)
		}
		if st == types.LotStatusArchived {
			f.ArchivedOnly = true
		} else {
			f.Status = st
		}
	}
	dbc := dbctx.New(ctx)
	lots, err := s.lotRepo.List(dbc, f)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	return s.views(dbc, op, lots)
}

func (s *lotService) Get(ctx context.Context, id uuid.UUID) (LotView, error) {
	const op = "lot.get"
	dbc := dbctx.New(ctx)
	lot, err := s.load(dbc, op, id)
	if err != nil {
		return LotView{}, err
	}
	return s.view(dbc, op, lot)
}

// ListForClient returns every lot the client consigned, archived ones included.
func (s *lotService) ListForClient(ctx context.Context, clientID uuid.UUID) ([]LotView, error) {
	const op = "client.lots"
	if err := access.Authorize(actorFrom(ctx), access.ClientLotsList, access.Resource{OwnerID: clientID}); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	lots, err := s.lotRepo.List(dbc, repos.LotFilter{SellerID: &clientID, AnyArchive: true})
	if err != nil {
		return nil, db.MapError(op, err)
	}
	return s.views(dbc, op, lots)
}

func (s *lotService) Update(ctx context.Context, id uuid.UUID, patch LotPatch) (LotView, error) {
	const op = "lot.update"
	if err := access.Authorize(actorFrom(ctx), access.LotUpdate, access.Resource{}); err != nil {
		return LotView{}, err
	}
	if patch.Empty() {
		return LotView{}, types.InvalidArgument(op, "no fields to update")
	}
	var out LotView
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		lot, err := s.load(dbc, op, id)
		if err != nil {
			return err
		}
		updates, err := applyLotPatch(op, lot, patch)
		if err != nil {
			return err
		}
		if _, ok := updates["lot_reference"]; ok {
			exists, err := s.lotRepo.ReferenceExists(dbc, lot.LotReference)
			if err != nil {
				return db.MapError(op, err)
			}
			if exists {
				return types.InvalidArgument(op, "lot_reference %q already exists", lot.LotReference)
			}
		}
		if err := s.lotRepo.UpdateFields(dbc, id, updates); err != nil {
			return db.MapError(op, err)
		}
		out, err = s.view(dbc, op, lot)
		return err
	})
	if err != nil {
		return LotView{}, err
	}
	return out, nil
}

// applyLotPatch validates the supplied fields against the stored lot, applies them and returns the column updates.
func applyLotPatch(op string, lot *types.Lot, p LotPatch) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	setText := func(col string, dst *string, v *string, required bool) error {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		if required && t == "" {
			return types.InvalidArgument(op, "%s must not be empty", col)
		}
		*dst = t
		updates[col] = t
		return nil
	}
	setAmount := func(col string, dst *float64, v *float64) error {
		if v == nil {
			return nil
		}
		if !validAmount(*v) {
			return types.InvalidArgument(op, "%s must be a non-negative amount", col)
		}
		*dst = valuation.RoundCurrency(*v)
		updates[col] = *dst
		return nil
	}

	if p.LotReference != nil && strings.TrimSpace(*p.LotReference) != lot.LotReference {
		if err := setText("lot_reference", &lot.LotReference, p.LotReference, true); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		col      string
		dst      *string
		v        *string
		required bool
	}{
		{"artist", &lot.Artist, p.Artist, true},
		{"title", &lot.Title, p.Title, true},
		{"category", &lot.Category, p.Category, true},
		{"dimensions", &lot.Dimensions, p.Dimensions, false},
		{"framing", &lot.Framing, p.Framing, false},
		{"material", &lot.Material, p.Material, false},
		{"description", &lot.Description, p.Description, false},
	} {
		if err := setText(f.col, f.dst, f.v, f.required); err != nil {
			return nil, err
		}
	}
	if p.Year != nil {
		if *p.Year <= 0 {
			return nil, types.InvalidArgument(op, "year must be positive")
		}
		y := *p.Year
		lot.Year = &y
		updates["year"] = y
	}
	if err := setAmount("estimate_low", &lot.EstimateLow, p.EstimateLow); err != nil {
		return nil, err
	}
	if err := setAmount("estimate_high", &lot.EstimateHigh, p.EstimateHigh); err != nil {
		return nil, err
	}
	if err := setAmount("reserve_price", &lot.ReservePrice, p.ReservePrice); err != nil {
		return nil, err
	}
	if lot.EstimateLow > lot.EstimateHigh {
		return nil, types.InvalidArgument(op, "estimate_low must not exceed estimate_high")
	}
	if p.CommissionBids != nil {
		lot.CommissionBids = *p.CommissionBids
		updates["commission_bids"] = lot.CommissionBids
	}
	if p.TriageStatus != nil {
		ts, ok := types.ParseTriageStatus(*p.TriageStatus)
		if !ok {
			return nil, types.InvalidArgument(op, "triage_status must be Physical or Online")
		}
		lot.TriageStatus = ts
		updates["triage_status"] = ts
	}
	if p.Status != nil {
		st, ok := types.ParseLotStatus(*p.Status)
		if !ok {
			return nil, types.InvalidArgument(op, "unknown lot status %q", *p.Status)
		}
		if lot.Status == types.LotStatusSold {
			return nil, types.InvalidArgument(op, "the status of a sold lot cannot be changed")
		}
		if lot.Status == types.LotStatusWithdrawn {
			return nil, types.InvalidArgument(op, "a withdrawn lot returns to sale by assigning it to an auction")
		}
		if !types.PatchableStatus(st) {
			return nil, types.InvalidArgument(op, "status %s can only be reached through its own operation", st)
		}
		if st == types.LotStatusListed && lot.AuctionID == nil {
			return nil, types.InvalidArgument(op, "a lot must be assigned to an auction before it is listed")
		}
		lot.Status = st
		updates["status"] = st
	}
	return updates, nil
}

func (s *lotService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "lot.delete"
	if err := access.Authorize(actorFrom(ctx), access.LotDelete, access.Resource{}); err != nil {
		return err
	}
	var (
		lot  *types.Lot
		keys []string
	)
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		lot, err = s.load(dbc, op, id)
		if err != nil {
			return err
		}
		n, err := s.transactionRepo.CountByLotID(dbc, id)
		if err != nil {
			return db.MapError(op, err)
		}
		if n > 0 {
			return types.Conflict(op, "lot has a recorded sale; archive it instead")
		}
		images, err := s.imageRepo.ListByLotIDs(dbc, []uuid.UUID{id})
		if err != nil {
			return db.MapError(op, err)
		}
		for _, img := range images {
			keys = append(keys, img.StorageKey)
			if img.ThumbnailKey != nil {
				keys = append(keys, *img.ThumbnailKey)
			}
		}
		return db.MapError(op, s.lotRepo.Delete(dbc, id))
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, keys)
	s.log.Info("Lot deleted", "lot_id", id, "images_removed", len(keys))
	publishLotEvent(ctx, s.events, s.log, types.NewLotEvent(types.LotEventDeleted, lot, s.clock.now()))
	return nil
}

// removeFiles deletes stored objects after their rows are gone; failures only leave orphans.
func (s *lotService) removeFiles(ctx context.Context, keys []string) {
	if s.media == nil {
		return
	}
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err := s.media.Delete(context.WithoutCancel(ctx), k); err != nil {
			s.log.Warn("Failed to delete media object (ignored)", "key", k, "error", err)
		}
	}
}

func (s *lotService) AssignAuction(ctx context.Context, id, auctionID uuid.UUID) (LotView, error) {
	const op = "lot.assign_auction"
	if err := access.Authorize(actorFrom(ctx), access.LotAssign, access.Resource{}); err != nil {
		return LotView{}, err
	}
	var (
		out LotView
		lot *types.Lot
	)
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		lot, err = s.load(dbc, op, id)
		if err != nil {
			return err
		}
		auction, err := s.auctionRepo.GetByID(dbc, auctionID)
		if err != nil {
			return db.MapError(op, err)
		}
		if auction == nil {
			return types.NotFound(op, "auction not found")
		}
		if !lot.CanAssign() {
			return types.InvalidArgument(op, "a sold lot cannot be assigned to an auction")
		}
		updates := map[string]interface{}{
			"auction_id": auction.ID,
			"status":     types.LotStatusListed,
		}
		// Re-consigning a withdrawn lot starts it afresh.
		if lot.Status == types.LotStatusWithdrawn {
			updates["withdrawal_fee"] = 0
			updates["withdrawn_date"] = nil
			lot.WithdrawalFee = 0
			lot.WithdrawnDate = nil
		}
		if err := s.lotRepo.UpdateFields(dbc, id, updates); err != nil {
			return db.MapError(op, err)
		}
		aid := auction.ID
		lot.AuctionID = &aid
		lot.Status = types.LotStatusListed
		out, err = s.view(dbc, op, lot)
		return err
	})
	if err != nil {
		return LotView{}, err
	}
	s.log.Info("Lot assigned to auction", "lot_id", id, "auction_id", auctionID)
	publishLotEvent(ctx, s.events, s.log, types.NewLotEvent(types.LotEventListed, lot, s.clock.now()))
	return out, nil
}

func (s *lotService) Withdraw(ctx context.Context, id uuid.UUID) (WithdrawResult, error) {
	const op = "lot.withdraw"
	actor := actorFrom(ctx)
	if !actor.Authenticated() {
		return WithdrawResult{}, types.Unauthenticated(op, "authentication required")
	}
	today := s.clock.today()
	var (
		res WithdrawResult
		lot *types.Lot
	)
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		lot, err = s.load(dbc, op, id)
		if err != nil {
			return err
		}
		if err := access.Authorize(actor, access.LotWithdraw, access.Resource{OwnerID: lot.SellerID}); err != nil {
			return err
		}
		if !lot.CanWithdraw() {
			return types.InvalidArgument(op, "a %s lot cannot be withdrawn", strings.ToLower(string(lot.Status)))
		}
		var auctionDate *time.Time
		if lot.AuctionID != nil {
			auction, err := s.auctionRepo.GetByID(dbc, *lot.AuctionID)
			if err != nil {
				return db.MapError(op, err)
			}
			if auction != nil {
				d := auction.Date()
				auctionDate = &d
			}
		}
		fee := valuation.WithdrawalFee(lot.EstimateLow, auctionDate, today)
		withdrawn := types.DateOf(today)
		if err := s.lotRepo.UpdateFields(dbc, id, map[string]interface{}{
			"status":         types.LotStatusWithdrawn,
			"withdrawal_fee": fee,
			"withdrawn_date": withdrawn,
		}); err != nil {
			return db.MapError(op, err)
		}
		lot.Status = types.LotStatusWithdrawn
		lot.WithdrawalFee = fee
		lot.WithdrawnDate = &withdrawn

		view, err := s.view(dbc, op, lot)
		if err != nil {
			return err
		}
		msg := "Lot withdrawn successfully"
		if fee > 0 {
			msg = fmt.Sprintf("Lot withdrawn with less than %d days' notice; a withdrawal fee of %s applies",
				valuation.WithdrawalNoticeDays, valuation.FormatPounds(fee))
		}
		res = WithdrawResult{Message: msg, WithdrawalFee: fee, Lot: view}
		return nil
	})
	if err != nil {
		return WithdrawResult{}, err
	}
	s.log.Info("Lot withdrawn", "lot_id", id, "withdrawal_fee", res.WithdrawalFee)
	publishLotEvent(ctx, s.events, s.log, types.NewLotEvent(types.LotEventWithdrawn, lot, s.clock.now()))
	return res, nil
}

func (s *lotService) CompleteSale(ctx context.Context, id uuid.UUID, in SaleInput) (SaleResult, error) {
	const op = "lot.complete_sale"
	if err := access.Authorize(actorFrom(ctx), access.LotCompleteSale, access.Resource{}); err != nil {
		return SaleResult{}, err
	}
	settlement, err := valuation.CalculateCommission(in.HammerPrice, valuation.DefaultRates())
	if err != nil {
		return SaleResult{}, err
	}
	now := s.clock.now()
	var (
		res SaleResult
		lot *types.Lot
	)
	err = s.db.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		lot, err = s.load(dbc, op, id)
		if err != nil {
			return err
		}
		if !lot.CanSell() {
			return types.InvalidArgument(op, "a %s lot cannot be sold", strings.ToLower(string(lot.Status)))
		}
		var buyerID *uuid.UUID
		if in.BuyerID != nil && *in.BuyerID != uuid.Nil {
			buyer, err := s.clientRepo.GetByID(dbc, *in.BuyerID)
			if err != nil {
				return db.MapError(op, err)
			}
			if buyer == nil {
				return types.InvalidArgument(op, "buyer not found")
			}
			bid := buyer.ID
			buyerID = &bid
		}
		price := settlement.HammerPrice
		if err := s.lotRepo.UpdateFields(dbc, id, map[string]interface{}{
			"status":     types.LotStatusSold,
			"sold_price": price,
		}); err != nil {
			return db.MapError(op, err)
		}
		lot.Status = types.LotStatusSold
		lot.SoldPrice = &price

		txn := &types.Transaction{
			LotID:                 lot.ID,
			BuyerID:               buyerID,
			SellerID:              lot.SellerID,
			HammerPrice:           settlement.HammerPrice,
			BuyersPremiumRate:     settlement.BuyersPremiumRate,
			BuyersPremium:         settlement.BuyersPremium,
			SellersCommissionRate: settlement.SellersCommissionRate,
			SellersCommission:     settlement.SellersCommission,
			TotalBuyerPays:        settlement.TotalBuyerPays,
			TotalSellerReceives:   settlement.TotalSellerReceives,
			TransactionDate:       now,
		}
		if _, err := s.transactionRepo.Create(dbc, []*types.Transaction{txn}); err != nil {
			return db.MapError(op, err)
		}

		view, err := s.view(dbc, op, lot)
		if err != nil {
			return err
		}
		res = SaleResult{
			Message:       "Sale completed",
			Lot:           view,
			Settlement:    settlement,
			TransactionID: txn.ID,
		}
		return nil
	})
	if err != nil {
		return SaleResult{}, err
	}
	s.log.Info("Lot sold", "lot_id", id, "hammer_price", settlement.HammerPrice, "transaction_id", res.TransactionID)
	publishLotEvent(ctx, s.events, s.log, types.NewLotEvent(types.LotEventSold, lot, now))
	return res, nil
}

// SetArchived flips the archive overlay only; the stored status is left as it was.
func (s *lotService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (LotView, error) {
	const op = "lot.archive"
	if err := access.Authorize(actorFrom(ctx), access.LotArchive, access.Resource{}); err != nil {
		return LotView{}, err
	}
	var (
		out LotView
		lot *types.Lot
	)
	err := s.db.InTx(ctx, func(dbc dbctx.Context) error {
		var err error
		lot, err = s.load(dbc, op, id)
		if err != nil {
			return err
		}
		if err := s.lotRepo.UpdateFields(dbc, id, map[string]interface{}{"is_archived": archived}); err != nil {
			return db.MapError(op, err)
		}
		lot.IsArchived = archived
		out, err = s.view(dbc, op, lot)
		return err
	})
	if err != nil {
		return LotView{}, err
	}
	evt := types.LotEventUnarchived
	if archived {
		evt = types.LotEventArchived
	}
	publishLotEvent(ctx, s.events, s.log, types.NewLotEvent(evt, lot, s.clock.now()))
	return out, nil
}
