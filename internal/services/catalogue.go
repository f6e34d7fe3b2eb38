package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/modules/access"
	"github.com/yungbote/fotherbys-backend/internal/modules/catalogue"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/imaging"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
	"github.com/yungbote/fotherbys-backend/internal/platform/mediastore"
)

const (
	catalogueImageLoaders = 4
	catalogueImageMaxPx   = 1200
	placeholderPx         = 600
)

type CatalogueSearch struct {
	Query       string
	Location    string
	AuctionType string
	Category    string
	AuctionDate string
}

type CataloguePDF struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	URL      string `json:"url"`
	Data     []byte `json:"-"`
}

type CatalogueService interface {
	Search(ctx context.Context, q CatalogueSearch) ([]LotView, error)
	Categories(ctx context.Context) ([]string, error)
	GeneratePDF(ctx context.Context, auctionID uuid.UUID) (*CataloguePDF, error)
}

type catalogueService struct {
	log          *logger.Logger
	auctionRepo  repos.AuctionRepo
	lotRepo      repos.LotRepo
	imageRepo    repos.LotImageRepo
	media        mediastore.Store
	placeholders *imaging.Placeholders
	houseName    string
	clock        Clock
}

func NewCatalogueService(
	log *logger.Logger,
	auctionRepo repos.AuctionRepo,
	lotRepo repos.LotRepo,
	imageRepo repos.LotImageRepo,
	media mediastore.Store,
	placeholders *imaging.Placeholders,
	houseName string,
	clock Clock,
) CatalogueService {
	return &catalogueService{
		log:          log.With("service", "CatalogueService"),
		auctionRepo:  auctionRepo,
		lotRepo:      lotRepo,
		imageRepo:    imageRepo,
		media:        media,
		placeholders: placeholders,
		houseName:    houseName,
		clock:        clock,
	}
}

func CatalogueKey(auctionID uuid.UUID) string {
	return fmt.Sprintf("catalogues/Fotherbys_Catalogue_%s.pdf", auctionID)
}

func (s *catalogueService) Search(ctx context.Context, q CatalogueSearch) ([]LotView, error) {
	const op = "catalogue.search"
	cq := repos.CatalogueQuery{Text: q.Query, Category: q.Category}
	if strings.TrimSpace(q.Location) != "" {
		loc, ok := types.ParseLocation(q.Location)
		if !ok {
			return nil, types.InvalidArgument(op, "location must be one of London, Paris, New York")
		}
		cq.Location = loc
	}
	if strings.TrimSpace(q.AuctionType) != "" {
		at, ok := types.ParseAuctionType(q.AuctionType)
		if !ok {
			return nil, types.InvalidArgument(op, "auction_type must be Physical or Online")
		}
		cq.AuctionType = at
	}
	if strings.TrimSpace(q.AuctionDate) != "" {
		d, err := types.ParseDate(q.AuctionDate)
		if err != nil {
			return nil, types.InvalidArgument(op, "auction_date must be a YYYY-MM-DD date")
		}
		cq.AuctionDate = &d
	}
	dbc := dbctx.New(ctx)
	lots, err := s.lotRepo.Search(dbc, cq)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	return hydrateLots(dbc, op, s.imageRepo, s.auctionRepo, lots)
}

func (s *catalogueService) Categories(ctx context.Context) ([]string, error) {
	out, err := s.lotRepo.Categories(dbctx.New(ctx))
	if err != nil {
		return nil, db.MapError("catalogue.categories", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *catalogueService) GeneratePDF(ctx context.Context, auctionID uuid.UUID) (*CataloguePDF, error) {
	const op = "catalogue.generate_pdf"
	if err := access.Authorize(actorFrom(ctx), access.AuctionCatalogue, access.Resource{}); err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	auction, err := s.auctionRepo.GetByID(dbc, auctionID)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	if auction == nil {
		return nil, types.NotFound(op, "auction not found")
	}
	lots, err := s.lotRepo.ListListedByAuction(dbc, auctionID)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	ids := make([]uuid.UUID, 0, len(lots))
	for _, l := range lots {
		ids = append(ids, l.ID)
	}
	images, err := s.imageRepo.ListByLotIDs(dbc, ids)
	if err != nil {
		return nil, db.MapError(op, err)
	}
	byLot := map[uuid.UUID][]*types.LotImage{}
	for _, img := range images {
		byLot[img.LotID] = append(byLot[img.LotID], img)
	}

	entries := make([]catalogue.Entry, len(lots))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(catalogueImageLoaders)
	for i, l := range lots {
		entries[i].Lot = l
		primary := types.PrimaryImage(byLot[l.ID])
		if primary == nil {
			continue
		}
		g.Go(func() error {
			img, err := s.loadImage(gctx, primary.StorageKey)
			if err != nil {
				// Unreadable images fall back to the placeholder tile.
				s.log.Warn("Catalogue image unavailable", "lot_id", l.ID, "key", primary.StorageKey, "error", err)
				return nil
			}
			entries[i].Image = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, types.NewError(types.CodeInternal, op, "failed to load images", err)
	}

	doc := catalogue.Document{
		HouseName:   s.houseName,
		Auction:     auction,
		Entries:     entries,
		GeneratedAt: s.clock.now(),
	}
	if s.placeholders != nil {
		if raw, err := s.placeholders.PNG(placeholderPx, "No Image Available"); err != nil {
			s.log.Warn("Placeholder rendering failed", "error", err)
		} else {
			doc.Placeholder = &catalogue.Image{Data: raw, Format: "PNG", Width: placeholderPx, Height: placeholderPx}
		}
	}

	var buf bytes.Buffer
	if err := catalogue.Render(&buf, doc); err != nil {
		return nil, types.NewError(types.CodeInternal, op, "failed to render catalogue", err)
	}
	key := CatalogueKey(auctionID)
	if err := s.media.Put(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
		return nil, types.NewError(types.CodeInternal, op, "failed to store catalogue", err)
	}
	s.log.Info("Catalogue generated", "auction_id", auctionID, "lots", len(lots), "bytes", buf.Len())
	return &CataloguePDF{
		Filename: fmt.Sprintf("Fotherbys_Catalogue_%s.pdf", auctionID),
		Key:      key,
		URL:      s.media.PublicURL(key),
		Data:     buf.Bytes(),
	}, nil
}

// loadImage reads a stored image and re-encodes it as a bounded JPEG for embedding.
func (s *catalogueService) loadImage(ctx context.Context, key string) (*catalogue.Image, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("image has no storage key")
	}
	rc, err := s.media.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	raw, err := io.ReadAll(io.LimitReader(rc, MaxImageUploadBytes+1))
	if err != nil {
		return nil, err
	}
	jpg, err := imaging.ToJPEG(raw, catalogueImageMaxPx, catalogueImageMaxPx)
	if err != nil {
		return nil, err
	}
	w, h, err := imaging.Dimensions(jpg)
	if err != nil {
		return nil, err
	}
	return &catalogue.Image{Data: jpg, Format: "JPG", Width: w, Height: h}, nil
}
