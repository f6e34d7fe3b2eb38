package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want types.ErrorCode
	}{
		{"not found", gorm.ErrRecordNotFound, types.CodeNotFound},
		{"duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), types.CodeInvalidArgument},
		{"fk", gorm.ErrForeignKeyViolated, types.CodeConflict},
		{"pg unique", &pgconn.PgError{Code: "23505"}, types.CodeInvalidArgument},
		{"pg fk", &pgconn.PgError{Code: "23503"}, types.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: lots.lot_reference"), types.CodeInvalidArgument},
		{"other", errors.New("disk I/O error"), types.CodeInternal},
		{"already domain", types.Forbidden("x", "no"), types.CodeForbidden},
	}
	for _, tc := range cases {
		got := types.CodeOf(MapError("op", tc.err))
		if got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil: want nil")
	}
}
