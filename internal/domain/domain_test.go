package domain

import (
	"testing"
	"time"
)

func TestDeriveAuctionStatus(t *testing.T) {
	today := time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)
	cases := []struct {
		name string
		date time.Time
		want AuctionStatus
	}{
		{"today", time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), AuctionStatusUpcoming},
		{"yesterday", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), AuctionStatusCompleted},
		{"next month", time.Date(2026, 11, 16, 0, 0, 0, 0, time.UTC), AuctionStatusUpcoming},
		{"last year", time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), AuctionStatusCompleted},
	}
	for _, tc := range cases {
		if got := DeriveAuctionStatus(tc.date, today); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
}

func TestAuctionStatusOnUsesStoredDate(t *testing.T) {
	a := &Auction{AuctionDate: DateOf(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))}
	late := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	if got := a.StatusOn(late); got != AuctionStatusUpcoming {
		t.Fatalf("StatusOn late today: want=Upcoming got=%s", got)
	}
	if got := a.StatusOn(late.Add(time.Minute)); got != AuctionStatusCompleted {
		t.Fatalf("StatusOn tomorrow: want=Completed got=%s", got)
	}
}

func TestReportedStatusOverlay(t *testing.T) {
	l := &Lot{Status: LotStatusListed}
	l.IsArchived = true
	if got := l.ReportedStatus(); got != LotStatusArchived {
		t.Fatalf("archived: want=Archived got=%s", got)
	}
	if l.Status != LotStatusListed {
		t.Fatalf("stored status changed: got=%s", l.Status)
	}
	l.IsArchived = false
	if got := l.ReportedStatus(); got != LotStatusListed {
		t.Fatalf("unarchived: want=Listed got=%s", got)
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	if got := DaysUntil(today, time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)); got != 10 {
		t.Fatalf("DaysUntil: want=10 got=%d", got)
	}
	if got := DaysUntil(today, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)); got != -2 {
		t.Fatalf("DaysUntil past: want=-2 got=%d", got)
	}
}

func TestPrimaryImage(t *testing.T) {
	a := &LotImage{DisplayOrder: 2}
	b := &LotImage{DisplayOrder: 1}
	if got := PrimaryImage([]*LotImage{a, b}); got != b {
		t.Fatalf("PrimaryImage fallback: want lowest display order")
	}
	c := &LotImage{DisplayOrder: 5, IsPrimary: true}
	if got := PrimaryImage([]*LotImage{a, b, c}); got != c {
		t.Fatalf("PrimaryImage flagged: want flagged image")
	}
	if got := PrimaryImage(nil); got != nil {
		t.Fatalf("PrimaryImage empty: want nil")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := NotFound("lot.get", "lot %s not found", "x")
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("IsCode: want not_found got=%s", CodeOf(err))
	}
	if got := MessageOf(err); got != "lot x not found" {
		t.Fatalf("MessageOf: got=%q", got)
	}
	wrapped := Wrap(CodeInternal, "outer", err)
	if CodeOf(wrapped) != CodeNotFound {
		t.Fatalf("Wrap must keep existing code: got=%s", CodeOf(wrapped))
	}
}
