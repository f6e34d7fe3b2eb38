package clients

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

type ClientRepo interface {
	Create(dbc dbctx.Context, rows []*types.Client) ([]*types.Client, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Client, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Client, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *clientRepo) Create(dbc dbctx.Context, rows []*types.Client) ([]*types.Client, error) {
	if len(rows) == 0 {
		return []*types.Client{}, nil
	}
	for _, row := range rows {
		row.Email = NormalizeEmail(row.Email)
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *clientRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Client, error) {
	var out []*types.Client
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *clientRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Client, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *clientRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Client, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var rows []*types.Client
	if err := dbc.DB(r.db).Where("email = ?", email).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *clientRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Client{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clientRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Client{}).
		Where("id = ?", id).
		Updates(updates).Error
}
