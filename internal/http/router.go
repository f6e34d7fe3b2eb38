package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/fotherbys-backend/internal/http/handlers"
	httpMW "github.com/yungbote/fotherbys-backend/internal/http/middleware"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	RequestTimeout time.Duration
	// UploadsDir is served at /uploads when media is stored on local disk.
	UploadsDir string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler    *httpH.HealthHandler
	AuthHandler      *httpH.AuthHandler
	AuctionHandler   *httpH.AuctionHandler
	LotHandler       *httpH.LotHandler
	LotImageHandler  *httpH.LotImageHandler
	CatalogueHandler *httpH.CatalogueHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fotherbys-backend"
	}
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.RequestTimeout(cfg.RequestTimeout))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.UploadsDir != "" {
		r.Static("/uploads", cfg.UploadsDir)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/token", cfg.AuthHandler.Token)
		}

		// Auctions
		if cfg.AuctionHandler != nil {
			api.GET("/auctions", cfg.AuctionHandler.List)
			api.GET("/auctions/:id", cfg.AuctionHandler.Get)
		}

		// Lots
		if cfg.LotHandler != nil {
			api.GET("/lots/suggest-triage", cfg.LotHandler.SuggestTriage)
			api.GET("/lots", cfg.LotHandler.List)
			api.GET("/lots/:id", cfg.LotHandler.Get)
		}
		if cfg.LotImageHandler != nil {
			api.GET("/lots/:id/images", cfg.LotImageHandler.List)
		}

		// Catalogue
		if cfg.CatalogueHandler != nil {
			api.GET("/catalogue/search", cfg.CatalogueHandler.Search)
			api.GET("/categories", cfg.CatalogueHandler.Categories)
			api.POST("/calculate-commission", cfg.CatalogueHandler.CalculateCommission)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.GET("/auth/users/me", cfg.AuthHandler.Me)
		}

		// Staff-only operations are enforced by the services' access policy.
		if cfg.AuctionHandler != nil {
			protected.POST("/auctions", cfg.AuctionHandler.Create)
			protected.PUT("/auctions/:id", cfg.AuctionHandler.Update)
			protected.DELETE("/auctions/:id", cfg.AuctionHandler.Delete)
			protected.PUT("/auctions/:id/archive", cfg.AuctionHandler.Archive)
			protected.PUT("/auctions/:id/unarchive", cfg.AuctionHandler.Unarchive)
			protected.POST("/auctions/:id/generate-pdf", cfg.AuctionHandler.GeneratePDF)
		}

		if cfg.LotHandler != nil {
			protected.POST("/lots", cfg.LotHandler.Create)
			protected.PUT("/lots/:id", cfg.LotHandler.Update)
			protected.DELETE("/lots/:id", cfg.LotHandler.Delete)
			protected.PUT("/lots/:id/assign-auction", cfg.LotHandler.AssignAuction)
			protected.PUT("/lots/:id/withdraw", cfg.LotHandler.Withdraw)
			protected.POST("/lots/:id/complete-sale", cfg.LotHandler.CompleteSale)
			protected.PUT("/lots/:id/archive", cfg.LotHandler.Archive)
			protected.PUT("/lots/:id/unarchive", cfg.LotHandler.Unarchive)
			protected.GET("/clients/:id/lots", cfg.LotHandler.ListForClient)
		}

		if cfg.LotImageHandler != nil {
			protected.POST("/lots/:id/images", cfg.LotImageHandler.Upload)
			protected.DELETE("/lots/images/:imageId", cfg.LotImageHandler.Delete)
		}
	}

	return r
}
