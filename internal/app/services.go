package app

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/fotherbys-backend/internal/platform/redis"
	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/platform/imaging"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
	"github.com/yungbote/fotherbys-backend/internal/platform/mediastore"
	"github.com/yungbote/fotherbys-backend/internal/services"
)

type Services struct {
	Media     mediastore.Store
	LotEvents redis.LotEventBus

	Auth      services.AuthService
	Auction   services.AuctionService
	Lot       services.LotService
	LotImage  services.LotImageService
	Catalogue services.CatalogueService
}

func wireServices(ctx context.Context, gdb *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")
	clock := services.Clock(services.SystemClock)
	tx := db.NewTxRunner(gdb)

	media, err := resolveMediaStore(ctx, log, cfg)
	if err != nil {
		return Services{}, err
	}

	placeholders, err := imaging.NewPlaceholders(cfg.FontPath)
	if err != nil {
		log.Warn("Catalogue font unavailable, using built-in face", "path", cfg.FontPath, "error", err)
		placeholders, _ = imaging.NewPlaceholders("")
	}

	var events services.LotEventPublisher = services.NewNoopLotEventPublisher()
	var bus redis.LotEventBus
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		bus, err = redis.NewLotEventBus(log, cfg.Redis)
		if err != nil {
			return Services{}, fmt.Errorf("init lot event bus: %w", err)
		}
		events = bus
	} else {
		log.Info("REDIS_ADDR not set, lot events are not published")
	}

	return Services{
		Media:     media,
		LotEvents: bus,
		Auth:      services.NewAuthService(tx, log, repos.Client, cfg.JWTSecretKey, clock),
		Auction:   services.NewAuctionService(tx, log, repos.Auction, repos.Lot, clock),
		Lot: services.NewLotService(
			tx, log,
			repos.Lot, repos.Auction, repos.LotImage, repos.Client, repos.Transaction,
			media, events, clock,
		),
		LotImage:  services.NewLotImageService(tx, log, repos.Lot, repos.LotImage, media),
		Catalogue: services.NewCatalogueService(log, repos.Auction, repos.Lot, repos.LotImage, media, placeholders, cfg.HouseName, clock),
	}, nil
}
