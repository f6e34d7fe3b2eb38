package services

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

// AuctionView is an auction as reported to callers, with its status derived for today.
type AuctionView struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Location    types.Location      `json:"location"`
	AuctionDate string              `json:"auction_date"`
	StartTime   string              `json:"start_time"`
	AuctionType types.AuctionType   `json:"auction_type"`
	Theme       string              `json:"theme"`
	Status      types.AuctionStatus `json:"status"`
	IsArchived  bool                `json:"is_archived"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func NewAuctionView(a *types.Auction, today time.Time) AuctionView {
	return AuctionView{
		ID:          a.ID,
		Title:       a.Title,
		Location:    a.Location,
		AuctionDate: types.FormatDate(a.AuctionDate),
		StartTime:   a.StartTime,
		AuctionType: a.AuctionType,
		Theme:       a.Theme,
		Status:      a.StatusOn(today),
		IsArchived:  a.IsArchived,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// LotView joins a lot with its images and a summary of its auction.
// Status is the reported status, so archived lots read as Archived.
type LotView struct {
	types.Lot
	Status        types.LotStatus   `json:"status"`
	WithdrawnDate *string           `json:"withdrawn_date,omitempty"`
	Images        []*types.LotImage `json:"images"`

	AuctionTitle     *string            `json:"auction_title,omitempty"`
	AuctionType      *types.AuctionType `json:"auction_type,omitempty"`
	AuctionLocation  *types.Location    `json:"auction_location,omitempty"`
	AuctionDate      *string            `json:"auction_date,omitempty"`
	AuctionStartTime *string            `json:"auction_start_time,omitempty"`
}

func NewLotView(l *types.Lot, images []*types.LotImage, auction *types.Auction) LotView {
	v := LotView{
		Lot:    *l,
		Status: l.ReportedStatus(),
		Images: images,
	}
	if v.Images == nil {
		v.Images = []*types.LotImage{}
	}
	if l.WithdrawnDate != nil {
		s := types.FormatDate(*l.WithdrawnDate)
		v.WithdrawnDate = &s
	}
	if auction != nil {
		title, at, loc, st := auction.Title, auction.AuctionType, auction.Location, auction.StartTime
		date := types.FormatDate(auction.AuctionDate)
		v.AuctionTitle = &title
		v.AuctionType = &at
		v.AuctionLocation = &loc
		v.AuctionDate = &date
		v.AuctionStartTime = &st
	}
	return v
}
