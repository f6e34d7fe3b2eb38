package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, staff bool) *types.Client {
	tb.Helper()
	c := &types.Client{
		ID:           uuid.New(),
		Name:         "Client " + email,
		Email:        email,
		PasswordHash: "pw",
		ClientType:   types.ClientTypeSeller,
		IsStaff:      staff,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func SeedAuction(tb testing.TB, ctx context.Context, tx *gorm.DB, date time.Time) *types.Auction {
	tb.Helper()
	a := &types.Auction{
		ID:          uuid.New(),
		Title:       "Impressionist & Modern Art",
		Location:    types.LocationLondon,
		AuctionDate: types.DateOf(date),
		StartTime:   "2:00pm",
		AuctionType: types.AuctionTypePhysical,
		Theme:       "Light and colour",
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed auction: %v", err)
	}
	return a
}

// SeedLot creates a Pending lot; pass a non-nil auction to create it Listed in that auction.
func SeedLot(tb testing.TB, ctx context.Context, tx *gorm.DB, sellerID uuid.UUID, auction *types.Auction, estimateLow float64) *types.Lot {
	tb.Helper()
	l := &types.Lot{
		ID:           uuid.New(),
		LotReference: fmt.Sprintf("LOT-%s", uuid.NewString()[:8]),
		Artist:       "Claude Monet",
		Title:        "Water Lilies",
		Category:     types.DefaultCategory,
		Description:  "Oil on canvas",
		EstimateLow:  estimateLow,
		EstimateHigh: estimateLow * 1.5,
		ReservePrice: estimateLow * 0.8,
		TriageStatus: types.TriagePhysical,
		Status:       types.LotStatusPending,
		SellerID:     sellerID,
	}
	if auction != nil {
		id := auction.ID
		l.AuctionID = &id
		l.Status = types.LotStatusListed
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lot: %v", err)
	}
	return l
}

func SeedLotImage(tb testing.TB, ctx context.Context, tx *gorm.DB, lotID uuid.UUID, order int, primary bool) *types.LotImage {
	tb.Helper()
	img := &types.LotImage{
		ID:           uuid.New(),
		LotID:        lotID,
		ImageURL:     fmt.Sprintf("/uploads/lots/%s_%d.jpg", lotID, order),
		StorageKey:   fmt.Sprintf("lots/%s_%d.jpg", lotID, order),
		IsPrimary:    primary,
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(img).Error; err != nil {
		tb.Fatalf("seed lot image: %v", err)
	}
	return img
}
