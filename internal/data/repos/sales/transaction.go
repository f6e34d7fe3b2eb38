package sales

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type TransactionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Transaction) ([]*types.Transaction, error)
	ListByLotID(dbc dbctx.Context, lotID uuid.UUID) ([]*types.Transaction, error)
	CountByLotID(dbc dbctx.Context, lotID uuid.UUID) (int64, error)
}

type transactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
	return &transactionRepo{db: db, log: baseLog.With("repo", "TransactionRepo")}
}

func (r *transactionRepo) Create(dbc dbctx.Context, rows []*types.Transaction) ([]*types.Transaction, error) {
	if len(rows) == 0 {
		return []*types.Transaction{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *transactionRepo) ListByLotID(dbc dbctx.Context, lotID uuid.UUID) ([]*types.Transaction, error) {
	var out []*types.Transaction
	if lotID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("lot_id = ?", lotID).
		Order("transaction_date DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *transactionRepo) CountByLotID(dbc dbctx.Context, lotID uuid.UUID) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Transaction{}).
		Where("lot_id = ?", lotID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
