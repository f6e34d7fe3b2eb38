package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/fotherbys-backend/internal/data/repos/catalog"
	"github.com/yungbote/fotherbys-backend/internal/data/repos/clients"
	"github.com/yungbote/fotherbys-backend/internal/data/repos/sales"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type ClientRepo = clients.ClientRepo

type AuctionRepo = catalog.AuctionRepo
type AuctionFilter = catalog.AuctionFilter
type LotRepo = catalog.LotRepo
type LotFilter = catalog.LotFilter
type CatalogueQuery = catalog.CatalogueQuery
type LotImageRepo = catalog.LotImageRepo

type TransactionRepo = sales.TransactionRepo

func NewClientRepo(db *gorm.DB, log *logger.Logger) ClientRepo {
	return clients.NewClientRepo(db, log)
}

func NewAuctionRepo(db *gorm.DB, log *logger.Logger) AuctionRepo {
	return catalog.NewAuctionRepo(db, log)
}

func NewLotRepo(db *gorm.DB, log *logger.Logger) LotRepo {
	return catalog.NewLotRepo(db, log)
}

func NewLotImageRepo(db *gorm.DB, log *logger.Logger) LotImageRepo {
	return catalog.NewLotImageRepo(db, log)
}

func NewTransactionRepo(db *gorm.DB, log *logger.Logger) TransactionRepo {
	return sales.NewTransactionRepo(db, log)
}
