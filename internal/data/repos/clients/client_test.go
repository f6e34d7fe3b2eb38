package clients

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/fotherbys-backend/internal/data/repos/testutil"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
)

func TestClientRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewClientRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.Client{{
		Name:         "Ada Seller",
		Email:        "  Ada@Example.com ",
		PasswordHash: "pw",
		ClientType:   types.ClientTypeSeller,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}
	if created[0].Email != "ada@example.com" {
		t.Fatalf("Create: email not normalized: %q", created[0].Email)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got == nil || got.Name != "Ada Seller" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}

	byEmail, err := repo.GetByEmail(dbc, "ADA@example.com")
	if err != nil || byEmail == nil || byEmail.ID != created[0].ID {
		t.Fatalf("GetByEmail: got=%+v err=%v", byEmail, err)
	}

	exists, err := repo.EmailExists(dbc, "ada@example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists: want=true got=%v err=%v", exists, err)
	}
	exists, err = repo.EmailExists(dbc, "nobody@example.com")
	if err != nil || exists {
		t.Fatalf("EmailExists missing: want=false got=%v err=%v", exists, err)
	}

	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{"is_staff": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ = repo.GetByID(dbc, created[0].ID)
	if got == nil || !got.IsStaff {
		t.Fatalf("UpdateFields: want is_staff=true got=%+v", got)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: got=%+v err=%v", missing, err)
	}

	if _, err := repo.Create(dbc, []*types.Client{{Name: "Dup", Email: "ada@example.com", PasswordHash: "pw"}}); err == nil {
		t.Fatalf("Create duplicate email: expected error")
	}
}
