package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	"github.com/yungbote/fotherbys-backend/internal/data/repos/testutil"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/ctxutil"
	"github.com/yungbote/fotherbys-backend/internal/platform/imaging"
	"github.com/yungbote/fotherbys-backend/internal/platform/mediastore"
)

const testJWTSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.LotEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt types.LotEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) eventTypes() []types.LotEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]types.LotEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	now    time.Time
	media  mediastore.Store
	events *recordingPublisher

	clientRepo      repos.ClientRepo
	auctionRepo     repos.AuctionRepo
	lotRepo         repos.LotRepo
	imageRepo       repos.LotImageRepo
	transactionRepo repos.TransactionRepo

	auth      AuthService
	auctions  AuctionService
	lots      LotService
	images    LotImageService
	catalogue CatalogueService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := testutil.Logger(t)
	gdb := testutil.DB(t)
	media, err := mediastore.NewLocalStore(t.TempDir(), "/uploads", log)
	if err != nil {
		t.Fatalf("media store: %v", err)
	}
	placeholders, err := imaging.NewPlaceholders("")
	if err != nil {
		t.Fatalf("placeholders: %v", err)
	}
	f := &fixture{
		ctx:    context.Background(),
		db:     gdb,
		now:    time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
		media:  media,
		events: &recordingPublisher{},

		clientRepo:      repos.NewClientRepo(gdb, log),
		auctionRepo:     repos.NewAuctionRepo(gdb, log),
		lotRepo:         repos.NewLotRepo(gdb, log),
		imageRepo:       repos.NewLotImageRepo(gdb, log),
		transactionRepo: repos.NewTransactionRepo(gdb, log),
	}
	clock := Clock(func() time.Time { return f.now })
	tx := db.NewTxRunner(gdb)
	f.auth = NewAuthService(tx, log, f.clientRepo, testJWTSecret, clock)
	f.auctions = NewAuctionService(tx, log, f.auctionRepo, f.lotRepo, clock)
	f.lots = NewLotService(tx, log, f.lotRepo, f.auctionRepo, f.imageRepo, f.clientRepo, f.transactionRepo, media, f.events, clock)
	f.images = NewLotImageService(tx, log, f.lotRepo, f.imageRepo, media)
	f.catalogue = NewCatalogueService(log, f.auctionRepo, f.lotRepo, f.imageRepo, media, placeholders, "Fotherby's", clock)
	return f
}

func (f *fixture) today() time.Time { return types.CalendarDay(f.now) }

func (f *fixture) daysOut(n int) time.Time { return f.today().AddDate(0, 0, n) }

func (f *fixture) client(t *testing.T, email string, staff bool) *types.Client {
	t.Helper()
	return testutil.SeedClient(t, f.ctx, f.db, email, staff)
}

func (f *fixture) auction(t *testing.T, daysOut int) *types.Auction {
	t.Helper()
	return testutil.SeedAuction(t, f.ctx, f.db, f.daysOut(daysOut))
}

func (f *fixture) lot(t *testing.T, seller *types.Client, auction *types.Auction, estimateLow float64) *types.Lot {
	t.Helper()
	return testutil.SeedLot(t, f.ctx, f.db, seller.ID, auction, estimateLow)
}

// image seeds a primary image row for the lot and stores a real PNG under its key.
func (f *fixture) image(t *testing.T, lotID uuid.UUID) *types.LotImage {
	t.Helper()
	img := testutil.SeedLotImage(t, f.ctx, f.db, lotID, 0, true)
	if err := f.media.Put(f.ctx, img.StorageKey, bytes.NewReader(pngBytes(t, 64, 48))); err != nil {
		t.Fatalf("store image: %v", err)
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{R: uint8(x * 4), G: 90, B: uint8(y * 5), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func as(c *types.Client) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{ClientID: c.ID, IsStaff: c.IsStaff})
}

func wantCode(t *testing.T, what string, err error, code types.ErrorCode) {
	t.Helper()
	if !types.IsCode(err, code) {
		t.Fatalf("%s: want code=%s got err=%v", what, code, err)
	}
}

func ptr[T any](v T) *T { return &v }
