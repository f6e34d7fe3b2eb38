package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type Repos struct {
	Client      repos.ClientRepo
	Auction     repos.AuctionRepo
	Lot         repos.LotRepo
	LotImage    repos.LotImageRepo
	Transaction repos.TransactionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Client:      repos.NewClientRepo(db, log),
		Auction:     repos.NewAuctionRepo(db, log),
		Lot:         repos.NewLotRepo(db, log),
		LotImage:    repos.NewLotImageRepo(db, log),
		Transaction: repos.NewTransactionRepo(db, log),
	}
}
