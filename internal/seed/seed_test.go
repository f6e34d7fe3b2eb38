package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/data/repos"
	"github.com/yungbote/fotherbys-backend/internal/data/repos/testutil"
	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
)

const fixtureYAML = `
clients:
  - name: Front Desk
    email: Staff@Fotherbys.test
    password: pw-123456
    staff: true
  - name: Eleanor Vance
    email: eleanor@example.com
    password: pw-123456
    client_type: Seller
auctions:
  - key: modern
    title: Impressionist & Modern Art
    location: london
    day_offset: 7
    start_time: 2:00pm
lots:
  - reference: FA-1001
    artist: Berthe Morisot
    title: Summer's Day
    estimate_low: 120000
    estimate_high: 180000
    reserve_price: 100000
    seller: eleanor@example.com
    auction: modern
  - reference: FA-1002
    artist: Gwen John
    title: Interior with Figures
    estimate_low: 800
    estimate_high: 1200
    reserve_price: 700
    seller: eleanor@example.com
`

func TestParseRejectsBrokenFixtures(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "clients: [",
		"unknown seller":   "lots:\n  - {reference: A, artist: B, title: C, estimate_low: 1, estimate_high: 2, seller: nobody@example.com}\n",
		"bad location":     "auctions:\n  - {key: a, title: T, location: Tokyo, start_time: '2:00pm'}\n",
		"bad start time":   "auctions:\n  - {key: a, title: T, location: Paris, start_time: noon}\n",
		"duplicate key":    "auctions:\n  - {key: a, title: T, location: Paris, start_time: '2:00pm'}\n  - {key: a, title: U, location: Paris, start_time: '2:00pm'}\n",
		"inverted range":   "clients:\n  - {email: s@example.com, password: pw}\nlots:\n  - {reference: A, artist: B, title: C, estimate_low: 5, estimate_high: 2, seller: s@example.com}\n",
		"missing password": "clients:\n  - {email: s@example.com}\n",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	r := Repos{
		Client:  repos.NewClientRepo(gdb, log),
		Auction: repos.NewAuctionRepo(gdb, log),
		Lot:     repos.NewLotRepo(gdb, log),
	}
	today := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)

	f, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first, err := Apply(ctx, db.NewTxRunner(gdb), r, log, today, f)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if first.ClientsCreated != 2 || first.AuctionsCreated != 1 || first.LotsCreated != 2 || first.Skipped != 0 {
		t.Fatalf("first run: got=%+v", first)
	}

	second, err := Apply(ctx, db.NewTxRunner(gdb), r, log, today, f)
	if err != nil {
		t.Fatalf("Apply again: %v", err)
	}
	if second.ClientsCreated+second.AuctionsCreated+second.LotsCreated != 0 || second.Skipped != 5 {
		t.Fatalf("second run: got=%+v", second)
	}

	dbc := dbctx.New(ctx)
	staff, err := r.Client.GetByEmail(dbc, "staff@fotherbys.test")
	if err != nil || staff == nil {
		t.Fatalf("staff lookup: client=%v err=%v", staff, err)
	}
	if !staff.IsStaff || staff.ClientType != types.ClientTypeBuyer {
		t.Fatalf("staff: want staff buyer got staff=%v type=%s", staff.IsStaff, staff.ClientType)
	}
	if strings.HasPrefix(staff.PasswordHash, "pw-") {
		t.Fatalf("password stored in clear")
	}

	auctions, err := r.Auction.List(dbc, repos.AuctionFilter{})
	if err != nil || len(auctions) != 1 {
		t.Fatalf("auctions: want=1 got=%d err=%v", len(auctions), err)
	}
	wantDate := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := auctions[0].Date(); !got.Equal(wantDate) {
		t.Fatalf("auction date: want=%v got=%v", wantDate, got)
	}
	if auctions[0].Location != types.LocationLondon || auctions[0].AuctionType != types.AuctionTypePhysical {
		t.Fatalf("auction: got location=%s type=%s", auctions[0].Location, auctions[0].AuctionType)
	}

	lots, err := r.Lot.List(dbc, repos.LotFilter{})
	if err != nil || len(lots) != 2 {
		t.Fatalf("lots: want=2 got=%d err=%v", len(lots), err)
	}
	for _, l := range lots {
		switch l.LotReference {
		case "FA-1001":
			if l.Status != types.LotStatusListed || l.AuctionID == nil || *l.AuctionID != auctions[0].ID {
				t.Fatalf("FA-1001: want listed in auction got status=%s auction=%v", l.Status, l.AuctionID)
			}
			if l.TriageStatus != types.TriagePhysical {
				t.Fatalf("FA-1001 triage: want=Physical got=%s", l.TriageStatus)
			}
		case "FA-1002":
			if l.Status != types.LotStatusPending || l.AuctionID != nil {
				t.Fatalf("FA-1002: want pending got status=%s", l.Status)
			}
			if l.TriageStatus != types.TriageOnline {
				t.Fatalf("FA-1002 triage: want=Online got=%s", l.TriageStatus)
			}
			if l.Category != types.DefaultCategory {
				t.Fatalf("FA-1002 category: want=%s got=%s", types.DefaultCategory, l.Category)
			}
		}
		if l.SellerID == staff.ID {
			t.Fatalf("%s: seller should be eleanor", l.LotReference)
		}
	}
}
