package services

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
	"github.com/yungbote/fotherbys-backend/internal/platform/dbctx"
)

func TestCatalogueSearchFilters(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)

	london := f.auction(t, 10)
	paris, err := f.auctions.Create(as(staff), AuctionInput{
		Title:       "Dessins anciens",
		Location:    "Paris",
		AuctionDate: f.daysOut(20).Format(types.DateLayout),
		StartTime:   "7:00pm",
		AuctionType: "Online",
	})
	if err != nil {
		t.Fatalf("Create auction: %v", err)
	}
	inLondon := f.lot(t, seller, london, 5000)
	inParis := f.lot(t, seller, nil, 5000)
	if _, err := f.lots.AssignAuction(as(staff), inParis.ID, paris.ID); err != nil {
		t.Fatalf("AssignAuction: %v", err)
	}
	if err := f.lotRepo.UpdateFields(dbctx.New(f.ctx), inParis.ID, map[string]interface{}{"artist": "Edgar Degas", "category": "Drawings"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	f.lot(t, seller, nil, 5000)
	archived := f.lot(t, seller, london, 5000)
	if _, err := f.lots.SetArchived(as(staff), archived.ID, true); err != nil {
		t.Fatalf("SetArchived: %v", err)
	}

	all, err := f.catalogue.Search(f.ctx, CatalogueSearch{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 2 || all[0].ID != inLondon.ID || all[1].ID != inParis.ID {
		t.Fatalf("browse: want listed lots soonest sale first, got=%d", len(all))
	}

	cases := []struct {
		name string
		q    CatalogueSearch
		want uuid.UUID
	}{
		{"text", CatalogueSearch{Query: "degas"}, inParis.ID},
		{"location", CatalogueSearch{Location: "london"}, inLondon.ID},
		{"type", CatalogueSearch{AuctionType: "Online"}, inParis.ID},
		{"category", CatalogueSearch{Category: "Drawings"}, inParis.ID},
		{"date", CatalogueSearch{AuctionDate: f.daysOut(10).Format(types.DateLayout)}, inLondon.ID},
	}
	for _, c := range cases {
		got, err := f.catalogue.Search(f.ctx, c.q)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if len(got) != 1 || got[0].ID != c.want {
			t.Fatalf("%s: want=[%s] got=%d lots", c.name, c.want, len(got))
		}
	}
	if got := all[1]; got.AuctionLocation == nil || *got.AuctionLocation != types.LocationParis {
		t.Fatalf("auction join: got=%v", got.AuctionLocation)
	}

	_, err = f.catalogue.Search(f.ctx, CatalogueSearch{Location: "Tokyo"})
	wantCode(t, "bad location", err, types.CodeInvalidArgument)
	_, err = f.catalogue.Search(f.ctx, CatalogueSearch{AuctionDate: "15/06/2026"})
	wantCode(t, "bad date", err, types.CodeInvalidArgument)

	cats, err := f.catalogue.Categories(f.ctx)
	if err != nil || len(cats) != 2 {
		t.Fatalf("Categories: got=%v err=%v", cats, err)
	}
}

func TestCategoriesEmpty(t *testing.T) {
	f := newFixture(t)
	cats, err := f.catalogue.Categories(f.ctx)
	if err != nil || cats == nil || len(cats) != 0 {
		t.Fatalf("Categories: want empty non-nil got=%v err=%v", cats, err)
	}
}

func TestGeneratePDF(t *testing.T) {
	f := newFixture(t)
	staff := f.client(t, "staff@fotherbys.com", true)
	seller := f.client(t, "seller@example.com", false)
	a := f.auction(t, 10)
	withImage := f.lot(t, seller, a, 5000)
	f.image(t, withImage.ID)
	f.lot(t, seller, a, 9000)
	broken := f.lot(t, seller, a, 9000)
	corrupt := f.image(t, broken.ID)
	if err := f.media.Put(f.ctx, corrupt.StorageKey, bytes.NewReader([]byte("not an image"))); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	pdf, err := f.catalogue.GeneratePDF(as(staff), a.ID)
	if err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if !bytes.HasPrefix(pdf.Data, []byte("%PDF-")) {
		t.Fatalf("pdf header: got=%q", pdf.Data[:8])
	}
	if pdf.Key != CatalogueKey(a.ID) || pdf.Filename != "Fotherbys_Catalogue_"+a.ID.String()+".pdf" {
		t.Fatalf("naming: key=%s filename=%s", pdf.Key, pdf.Filename)
	}
	if stored := readStored(t, f, pdf.Key); !bytes.Equal(stored, pdf.Data) {
		t.Fatalf("stored catalogue differs from returned bytes")
	}

	_, err = f.catalogue.GeneratePDF(as(staff), uuid.New())
	wantCode(t, "unknown auction", err, types.CodeNotFound)
	_, err = f.catalogue.GeneratePDF(as(seller), a.ID)
	wantCode(t, "seller generates", err, types.CodeForbidden)

	empty := f.auction(t, 40)
	if _, err := f.catalogue.GeneratePDF(as(staff), empty.ID); err != nil {
		t.Fatalf("GeneratePDF empty auction: %v", err)
	}
}
