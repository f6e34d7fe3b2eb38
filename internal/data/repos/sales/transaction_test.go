package sales

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/fotherbys-backend/internal/data/repos/testutil"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
)

func TestTransactionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTransactionRepo(db, testutil.Logger(t))

	seller := testutil.SeedClient(t, ctx, tx, "txseller@example.com", false)
	lot := testutil.SeedLot(t, ctx, tx, seller.ID, nil, 1000)

	created, err := repo.Create(dbc, []*types.Transaction{{
		LotID:               lot.ID,
		SellerID:            seller.ID,
		HammerPrice:         1000,
		BuyersPremiumRate:   0.1,
		BuyersPremium:       100,
		SellersCommission:   100,
		TotalBuyerPays:      1100,
		TotalSellerReceives: 900,
		TransactionDate:     time.Now().UTC(),
	}})
	if err != nil || len(created) != 1 {
		t.Fatalf("Create: err=%v", err)
	}
	rows, err := repo.ListByLotID(dbc, lot.ID)
	if err != nil || len(rows) != 1 || rows[0].TotalSellerReceives != 900 {
		t.Fatalf("ListByLotID: err=%v rows=%+v", err, rows)
	}
	n, err := repo.CountByLotID(dbc, lot.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountByLotID: want=1 got=%d err=%v", n, err)
	}
}
