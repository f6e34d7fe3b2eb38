package services

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
)

func lotInput(ref string, low float64) LotInput {
	return LotInput{
		LotReference: ref,
		Artist:       "Berthe Morisot",
		Title:        "Summer's Day",
		EstimateLow:  ptr(low),
		EstimateHigh: ptr(low * 2),
		ReservePrice: ptr(low * 0.9),
	}
}

func TestLotCreateSellerAttribution(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	other := f.client(t, "other@example.com", false)

	in := lotInput("FA-100", 12000)
	in.SellerID = &other.ID
	v, err := f.lots.Create(as(seller), in)
	if err != nil {
		t.Fatalf("Create by seller: %v", err)
	}
	if v.SellerID != seller.ID {
		t.Fatalf("non-staff seller_id: want=%s got=%s", seller.ID, v.SellerID)
	}
	if v.Status != types.LotStatusPending || v.Category != types.DefaultCategory || v.TriageStatus != types.TriageOnline {
		t.Fatalf("defaults: status=%s category=%s triage=%s", v.Status, v.Category, v.TriageStatus)
	}

	in = lotInput("FA-101", 45000)
	in.SellerID = &other.ID
	v, err = f.lots.Create(as(staff), in)
	if err != nil {
		t.Fatalf("Create by staff: %v", err)
	}
	if v.SellerID != other.ID || v.TriageStatus != types.TriagePhysical {
		t.Fatalf("staff consignment: seller=%s triage=%s", v.SellerID, v.TriageStatus)
	}

	v, err = f.lots.Create(as(staff), lotInput("FA-102", 100))
	if err != nil {
		t.Fatalf("Create by staff without seller: %v", err)
	}
	if v.SellerID != staff.ID {
		t.Fatalf("staff default seller: want=%s got=%s", staff.ID, v.SellerID)
	}

	in = lotInput("FA-103", 100)
	in.SellerID = ptr(uuid.New())
	_, err = f.lots.Create(as(staff), in)
	wantCode(t, "unknown seller", err, types.CodeInvalidArgument)

	if got := f.events.eventTypes(); len(got) != 3 {
		t.Fatalf("events: want 3 lot.created got=%v", got)
	}
}

func TestLotCreateValidation(t *testing.T) {
	f := newFixture(t)
	seller := f.client(t, "seller@example.com", false)
	if _, err := f.lots.Create(as(seller), lotInput("DUP-1", 1000)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := f.lots.Create(as(seller), lotInput("DUP-1", 1000))
	wantCode(t, "duplicate reference", err, types.CodeInvalidArgument)

	in := lotInput("X-1", 1000)
	in.EstimateHigh = ptr(500.0)
	_, err = f.lots.Create(as(seller), in)
	wantCode(t, "low > high", err, types.CodeInvalidArgument)

	in = lotInput("X-2", 1000)
	in.ReservePrice = nil
	_, err = f.lots.Create(as(seller), in)
	wantCode(t, "missing reserve", err, types.CodeInvalidArgument)

	in = lotInput("X-3", 1000)
	in.TriageStatus = "Hybrid"
	_, err = f.lots.Create(as(seller), in)
	wantCode(t, "bad triage", err, types.CodeInvalidArgument)

	_, err = f.lots.Create(f.ctx, lotInput("X-4", 1000))
	wantCode(t, "anonymous create", err, types.CodeUnauthenticated)
}

func TestWithdrawFeeSchedule(t *testing.T) {
	cases := []struct {
		name    string
		daysOut int
		wantFee float64
	}{
		{"ten days out", 10, 500},
		{"fourteen days out", 14, 0},
		{"twenty days out", 20, 0},
		{"auction already past", -3, 500},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			seller := f.client(t, "seller@example.com", false)
			lot := f.lot(t, seller, f.auction(t, c.daysOut), 10000)

			res, err := f.lots.Withdraw(as(seller), lot.ID)
			if err != nil {
				t.Fatalf("Withdraw: %v", err)
			}
			if res.WithdrawalFee != c.wantFee {
				t.Fatalf("fee: want=%v got=%v", c.wantFee, res.WithdrawalFee)
			}
			if res.Lot.Status != types.LotStatusWithdrawn {
				t.Fatalf("status: want=Withdrawn got=%s", res.Lot.Status)
			}
			stored, _ := f.lotRepo.GetByID(dbctx.New(f.ctx), lot.ID)
			if stored.WithdrawalFee != c.wantFee || stored.WithdrawnDate == nil {
				t.Fatalf("stored: fee=%v withdrawn_date=%v", stored.WithdrawalFee, stored.WithdrawnDate)
			}
			if got := types.FormatDate(*stored.WithdrawnDate); got != f.today().Format(types.DateLayout) {
				t.Fatalf("withdrawn_date: want=today got=%s", got)
			}
		})
	}
}

func TestWithdrawWithoutAuctionIsFree(t *testing.T) {
	f := newFixture(t)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 50000)
	res, err := f.lots.Withdraw(as(seller), lot.ID)
	if err != nil || res.WithdrawalFee != 0 {
		t.Fatalf("Withdraw unassigned: fee=%v err=%v", res.WithdrawalFee, err)
	}
}

func TestWithdrawAuthorization(t *testing.T) {
	f := newFixture(t)
	seller := f.client(t, "seller@example.com", false)
	other := f.client(t, "other@example.com", false)
	staff := f.client(t, "staff@fotherbys.com", true)
	a := f.auction(t, 30)
	mine := f.lot(t, seller, a, 1000)
	theirs := f.lot(t, other, a, 1000)

	_, err := f.lots.Withdraw(as(seller), theirs.ID)
	wantCode(t, "withdraw another seller's lot", err, types.CodeForbidden)

	if _, err := f.lots.Withdraw(as(seller), mine.ID); err != nil {
		t.Fatalf("withdraw own lot: %v", err)
	}
	if _, err := f.lots.Withdraw(as(staff), theirs.ID); err != nil {
		t.Fatalf("staff withdraw: %v", err)
	}
	_, err = f.lots.Withdraw(as(seller), mine.ID)
	wantCode(t, "withdraw twice", err, types.CodeInvalidArgument)

	_, err = f.lots.Withdraw(as(seller), uuid.New())
	wantCode(t, "withdraw unknown", err, types.CodeNotFound)

	_, err = f.lots.Withdraw(f.ctx, mine.ID)
	wantCode(t, "anonymous withdraw", err, types.CodeUnauthenticated)
}

func TestAssignAuction(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	a := f.auction(t, 5)
	lot := f.lot(t, seller, nil, 8000)

	_, err := f.lots.AssignAuction(as(seller), lot.ID, a.ID)
	wantCode(t, "non-staff assign", err, types.CodeForbidden)
	_, err = f.lots.AssignAuction(as(staff), uuid.New(), a.ID)
	wantCode(t, "unknown lot", err, types.CodeNotFound)
	_, err = f.lots.AssignAuction(as(staff), lot.ID, uuid.New())
	wantCode(t, "unknown auction", err, types.CodeNotFound)

	v, err := f.lots.AssignAuction(as(staff), lot.ID, a.ID)
	if err != nil {
		t.Fatalf("AssignAuction: %v", err)
	}
	if v.Status != types.LotStatusListed || v.AuctionID == nil || *v.AuctionID != a.ID {
		t.Fatalf("assigned: status=%s auction=%v", v.Status, v.AuctionID)
	}
	if v.AuctionTitle == nil || *v.AuctionTitle != a.Title {
		t.Fatalf("auction join: got=%v", v.AuctionTitle)
	}

	// Withdrawn inside the notice window, then re-consigned to a later sale.
	res, err := f.lots.Withdraw(as(seller), lot.ID)
	if err != nil || res.WithdrawalFee != 400 {
		t.Fatalf("Withdraw: fee=%v err=%v", res.WithdrawalFee, err)
	}
	later := f.auction(t, 60)
	v, err = f.lots.AssignAuction(as(staff), lot.ID, later.ID)
	if err != nil {
		t.Fatalf("re-assign withdrawn: %v", err)
	}
	if v.WithdrawalFee != 0 || v.WithdrawnDate != nil || v.Status != types.LotStatusListed {
		t.Fatalf("re-consigned: fee=%v withdrawn=%v status=%s", v.WithdrawalFee, v.WithdrawnDate, v.Status)
	}
}

func TestStatusPatchKeepsWithdrawnLot(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	a := f.auction(t, 10)
	lot := f.lot(t, seller, a, 10000)

	res, err := f.lots.Withdraw(as(seller), lot.ID)
	if err != nil || res.WithdrawalFee != 500 {
		t.Fatalf("Withdraw: fee=%v err=%v", res.WithdrawalFee, err)
	}
	for _, st := range []string{"Listed", "Pending", "Unsold"} {
		_, err = f.lots.Update(as(staff), lot.ID, LotPatch{Status: ptr(st)})
		wantCode(t, "patch withdrawn to "+st, err, types.CodeInvalidArgument)
	}
	if _, err := f.lots.Update(as(staff), lot.ID, LotPatch{Title: ptr("Summer Evening")}); err != nil {
		t.Fatalf("title patch on withdrawn lot: %v", err)
	}

	stored, err := f.lotRepo.GetByID(dbctx.New(f.ctx), lot.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != types.LotStatusWithdrawn || stored.WithdrawalFee != 500 || stored.WithdrawnDate == nil {
		t.Fatalf("withdrawn lot after patches: status=%s fee=%v withdrawn=%v", stored.Status, stored.WithdrawalFee, stored.WithdrawnDate)
	}
	if stored.Title != "Summer Evening" {
		t.Fatalf("title: want=Summer Evening got=%q", stored.Title)
	}

	v, err := f.lots.AssignAuction(as(staff), lot.ID, f.auction(t, 45).ID)
	if err != nil {
		t.Fatalf("AssignAuction: %v", err)
	}
	if v.Status != types.LotStatusListed || v.WithdrawalFee != 0 || v.WithdrawnDate != nil {
		t.Fatalf("re-consigned: status=%s fee=%v withdrawn=%v", v.Status, v.WithdrawalFee, v.WithdrawnDate)
	}
}

func TestCompleteSaleRecordsTransaction(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	buyer := f.client(t, "buyer@example.com", false)
	lot := f.lot(t, seller, f.auction(t, 1), 20000)

	_, err := f.lots.CompleteSale(as(seller), lot.ID, SaleInput{HammerPrice: 25000})
	wantCode(t, "non-staff sale", err, types.CodeForbidden)
	_, err = f.lots.CompleteSale(as(staff), lot.ID, SaleInput{HammerPrice: 0})
	wantCode(t, "zero hammer", err, types.CodeInvalidArgument)
	_, err = f.lots.CompleteSale(as(staff), lot.ID, SaleInput{HammerPrice: 100, BuyerID: ptr(uuid.New())})
	wantCode(t, "unknown buyer", err, types.CodeInvalidArgument)

	res, err := f.lots.CompleteSale(as(staff), lot.ID, SaleInput{HammerPrice: 25000, BuyerID: &buyer.ID})
	if err != nil {
		t.Fatalf("CompleteSale: %v", err)
	}
	s := res.Settlement
	if s.BuyersPremium != 2500 || s.TotalBuyerPays != 27500 || s.SellersCommission != 2500 || s.TotalSellerReceives != 22500 {
		t.Fatalf("settlement: got=%+v", s)
	}
	if res.Lot.Status != types.LotStatusSold || res.Lot.SoldPrice == nil || *res.Lot.SoldPrice != 25000 {
		t.Fatalf("sold lot: status=%s sold_price=%v", res.Lot.Status, res.Lot.SoldPrice)
	}

	txns, err := f.transactionRepo.ListByLotID(dbctx.New(f.ctx), lot.ID)
	if err != nil || len(txns) != 1 {
		t.Fatalf("transactions: n=%d err=%v", len(txns), err)
	}
	txn := txns[0]
	if txn.ID != res.TransactionID || txn.SellerID != seller.ID || txn.BuyerID == nil || *txn.BuyerID != buyer.ID {
		t.Fatalf("transaction parties: got=%+v", txn)
	}
	if txn.TotalBuyerPays != 27500 || txn.TotalSellerReceives != 22500 {
		t.Fatalf("transaction totals: got=%+v", txn)
	}

	_, err = f.lots.CompleteSale(as(staff), lot.ID, SaleInput{HammerPrice: 30000})
	wantCode(t, "sell twice", err, types.CodeInvalidArgument)
	_, err = f.lots.Withdraw(as(seller), lot.ID)
	wantCode(t, "withdraw sold", err, types.CodeInvalidArgument)
	_, err = f.lots.AssignAuction(as(staff), lot.ID, f.auction(t, 9).ID)
	wantCode(t, "assign sold", err, types.CodeInvalidArgument)
	_, err = f.lots.Update(as(staff), lot.ID, LotPatch{Status: ptr("Unsold")})
	wantCode(t, "patch sold status", err, types.CodeInvalidArgument)
	err = f.lots.Delete(as(staff), lot.ID)
	wantCode(t, "delete sold", err, types.CodeConflict)
}

func TestArchiveRoundTripPreservesLot(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	a := f.auction(t, 20)
	lot := f.lot(t, seller, a, 15000)

	before, err := f.lotRepo.GetByID(dbctx.New(f.ctx), lot.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	v, err := f.lots.SetArchived(as(staff), lot.ID, true)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if v.Status != types.LotStatusArchived || v.Lot.Status != types.LotStatusListed {
		t.Fatalf("archived view: reported=%s stored=%s", v.Status, v.Lot.Status)
	}

	listed, _ := f.lots.List(f.ctx, LotListFilter{})
	if len(listed) != 0 {
		t.Fatalf("default listing: want archived lot hidden, got=%d", len(listed))
	}
	for _, filter := range []LotListFilter{{ArchivedOnly: true}, {Status: "Archived"}} {
		got, err := f.lots.List(f.ctx, filter)
		if err != nil || len(got) != 1 || got[0].Status != types.LotStatusArchived {
			t.Fatalf("archived listing %+v: n=%d err=%v", filter, len(got), err)
		}
	}

	if _, err := f.lots.SetArchived(as(staff), lot.ID, false); err != nil {
		t.Fatalf("unarchive: %v", err)
	}
	after, _ := f.lotRepo.GetByID(dbctx.New(f.ctx), lot.ID)
	after.UpdatedAt = before.UpdatedAt
	if !reflect.DeepEqual(*before, *after) {
		t.Fatalf("round trip changed the lot:\nbefore=%+v\nafter=%+v", before, after)
	}

	_, err = f.lots.SetArchived(as(seller), lot.ID, true)
	wantCode(t, "non-staff archive", err, types.CodeForbidden)

	want := []types.LotEventType{types.LotEventArchived, types.LotEventUnarchived}
	if got := f.events.eventTypes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events: want=%v got=%v", want, got)
	}
}

func TestLotUpdatePatch(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 1000)
	other := f.lot(t, seller, nil, 1000)

	_, err := f.lots.Update(as(staff), lot.ID, LotPatch{})
	wantCode(t, "empty patch", err, types.CodeInvalidArgument)
	_, err = f.lots.Update(as(seller), lot.ID, LotPatch{Title: ptr("Mine")})
	wantCode(t, "non-staff update", err, types.CodeForbidden)
	_, err = f.lots.Update(as(staff), uuid.New(), LotPatch{Title: ptr("Ghost")})
	wantCode(t, "unknown lot", err, types.CodeNotFound)
	_, err = f.lots.Update(as(staff), lot.ID, LotPatch{EstimateLow: ptr(5000.0)})
	wantCode(t, "low above stored high", err, types.CodeInvalidArgument)
	_, err = f.lots.Update(as(staff), lot.ID, LotPatch{LotReference: &other.LotReference})
	wantCode(t, "duplicate reference", err, types.CodeInvalidArgument)
	_, err = f.lots.Update(as(staff), lot.ID, LotPatch{Status: ptr("Withdrawn")})
	wantCode(t, "patch to withdrawn", err, types.CodeInvalidArgument)
	_, err = f.lots.Update(as(staff), lot.ID, LotPatch{Status: ptr("Listed")})
	wantCode(t, "list without auction", err, types.CodeInvalidArgument)

	v, err := f.lots.Update(as(staff), lot.ID, LotPatch{
		Title:        ptr("Evening Light"),
		Year:         ptr(1890),
		EstimateLow:  ptr(1200.0),
		EstimateHigh: ptr(1800.0),
		Status:       ptr("unsold"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.Title != "Evening Light" || v.Artist != lot.Artist || v.Status != types.LotStatusUnsold {
		t.Fatalf("patched view: title=%q artist=%q status=%s", v.Title, v.Artist, v.Status)
	}
	stored, _ := f.lotRepo.GetByID(dbctx.New(f.ctx), lot.ID)
	if stored.Year == nil || *stored.Year != 1890 || stored.EstimateLow != 1200 || stored.Description != lot.Description {
		t.Fatalf("stored after patch: %+v", stored)
	}
}

func TestLotListingFiltersAndClientScope(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	other := f.client(t, "other@example.com", false)
	a := f.auction(t, 12)
	listed := f.lot(t, seller, a, 3000)
	pending := f.lot(t, seller, nil, 3000)
	f.lot(t, other, nil, 3000)
	if err := f.lotRepo.UpdateFields(dbctx.New(f.ctx), pending.ID, map[string]interface{}{"artist": "Mary Cassatt"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	img := f.image(t, listed.ID)

	byAuction, err := f.lots.List(f.ctx, LotListFilter{AuctionID: &a.ID})
	if err != nil || len(byAuction) != 1 || byAuction[0].ID != listed.ID {
		t.Fatalf("auction filter: n=%d err=%v", len(byAuction), err)
	}
	if len(byAuction[0].Images) != 1 || byAuction[0].Images[0].ID != img.ID {
		t.Fatalf("images join: got=%v", byAuction[0].Images)
	}
	byArtist, _ := f.lots.List(f.ctx, LotListFilter{Artist: "cassatt"})
	if len(byArtist) != 1 || byArtist[0].ID != pending.ID {
		t.Fatalf("artist filter: got=%d", len(byArtist))
	}
	byStatus, _ := f.lots.List(f.ctx, LotListFilter{Status: "Listed"})
	if len(byStatus) != 1 {
		t.Fatalf("status filter: got=%d", len(byStatus))
	}
	_, err = f.lots.List(f.ctx, LotListFilter{Status: "Lost"})
	wantCode(t, "bad status filter", err, types.CodeInvalidArgument)

	mine, err := f.lots.ListForClient(as(seller), seller.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("own lots: n=%d err=%v", len(mine), err)
	}
	if _, err := f.lots.ListForClient(as(staff), seller.ID); err != nil {
		t.Fatalf("staff lists client lots: %v", err)
	}
	_, err = f.lots.ListForClient(as(other), seller.ID)
	wantCode(t, "other client's lots", err, types.CodeForbidden)
}

func TestLotDeleteRemovesImages(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	lot := f.lot(t, seller, nil, 3000)
	img := f.image(t, lot.ID)

	err := f.lots.Delete(as(seller), lot.ID)
	wantCode(t, "non-staff delete", err, types.CodeForbidden)

	if err := f.lots.Delete(as(staff), lot.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = f.lots.Get(f.ctx, lot.ID)
	wantCode(t, "get deleted", err, types.CodeNotFound)
	if left, _ := f.imageRepo.CountByLotID(dbctx.New(f.ctx), lot.ID); left != 0 {
		t.Fatalf("image rows: want=0 got=%d", left)
	}
	if _, err := f.media.Open(f.ctx, img.StorageKey); err == nil {
		t.Fatalf("image file still present after delete")
	}
	if got := f.events.eventTypes(); len(got) != 1 || got[0] != types.LotEventDeleted {
		t.Fatalf("events: got=%v", got)
	}
}

func TestSuggestTriageIsForgiving(t *testing.T) {
	f := newFixture(t)
	cases := map[string]types.TriageStatus{
		"19999.99": types.TriageOnline,
		"20000":    types.TriagePhysical,
		"20,000":   types.TriagePhysical,
		"abc":      types.TriagePhysical,
	}
	for in, want := range cases {
		if got := f.lots.SuggestTriage(in); got.Suggested != want || got.Reason == "" {
			t.Fatalf("SuggestTriage(%q): want=%s got=%+v", in, want, got)
		}
	}
}
