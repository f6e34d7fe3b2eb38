package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

// Models lists every persisted table, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&types.Client{},
		&types.Auction{},
		&types.Lot{},
		&types.LotImage{},
		&types.Transaction{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
