package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	server "github.com/yungbote/fotherbys-backend/internal/http"
	httpH "github.com/yungbote/fotherbys-backend/internal/http/handlers"
	httpMW "github.com/yungbote/fotherbys-backend/internal/http/middleware"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Auction   *httpH.AuctionHandler
	Lot       *httpH.LotHandler
	LotImage  *httpH.LotImageHandler
	Catalogue *httpH.CatalogueHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(gdb *gorm.DB, svc Services) Handlers {
	ping := func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(ping),
		Auth:      httpH.NewAuthHandler(svc.Auth),
		Auction:   httpH.NewAuctionHandler(svc.Auction, svc.Catalogue),
		Lot:       httpH.NewLotHandler(svc.Lot),
		LotImage:  httpH.NewLotImageHandler(svc.LotImage),
		Catalogue: httpH.NewCatalogueHandler(svc.Catalogue),
	}
}

func wireMiddleware(log *logger.Logger, svc Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, svc.Auth)}
}

func wireRouter(log *logger.Logger, cfg Config, svc Services, h Handlers, mw Middleware) *gin.Engine {
	log.Info("Wiring router...")
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	return server.NewRouter(server.RouterConfig{
		Log:              log,
		ServiceName:      cfg.Otel.ServiceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		RequestTimeout:   cfg.RequestTimeout,
		UploadsDir:       uploadsDir(svc.Media),
		AuthMiddleware:   mw.Auth,
		HealthHandler:    h.Health,
		AuthHandler:      h.Auth,
		AuctionHandler:   h.Auction,
		LotHandler:       h.Lot,
		LotImageHandler:  h.LotImage,
		CatalogueHandler: h.Catalogue,
	})
}
