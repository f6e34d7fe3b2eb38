package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

// MapError classifies store failures into domain error codes. Duplicate unique keys surface as
// invalid arguments since they always originate from caller input.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *types.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.NewError(types.CodeNotFound, op, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return types.NewError(types.CodeInvalidArgument, op, "duplicate value for a unique field", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return types.NewError(types.CodeConflict, op, "record is still referenced", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return types.NewError(types.CodeInternal, op, "request cancelled or timed out", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return types.NewError(types.CodeInvalidArgument, op, "duplicate value for a unique field", err)
		case "23503":
			return types.NewError(types.CodeConflict, op, "record is still referenced", err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"), strings.Contains(msg, "duplicate key"):
		return types.NewError(types.CodeInvalidArgument, op, "duplicate value for a unique field", err)
	case strings.Contains(msg, "foreign key constraint failed"):
		return types.NewError(types.CodeConflict, op, "record is still referenced", err)
	default:
		return types.NewError(types.CodeInternal, op, "store failure", err)
	}
}
