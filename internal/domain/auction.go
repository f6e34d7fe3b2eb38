package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Location string

const (
	LocationLondon  Location = "London"
	LocationParis   Location = "Paris"
	LocationNewYork Location = "New York"
)

var Locations = []Location{LocationLondon, LocationParis, LocationNewYork}

func ParseLocation(s string) (Location, bool) {
	for _, l := range Locations {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, true
		}
	}
	return "", false
}

// Sale sessions run at fixed times.
var StartTimes = []string{"9:30am", "2:00pm", "7:00pm"}

func ParseStartTime(s string) (string, bool) {
	for _, st := range StartTimes {
		if strings.EqualFold(strings.TrimSpace(s), st) {
			return st, true
		}
	}
	return "", false
}

type AuctionType string

const (
	AuctionTypePhysical AuctionType = "Physical"
	AuctionTypeOnline   AuctionType = "Online"
)

func ParseAuctionType(s string) (AuctionType, bool) {
	for _, at := range []AuctionType{AuctionTypePhysical, AuctionTypeOnline} {
		if strings.EqualFold(strings.TrimSpace(s), string(at)) {
			return at, true
		}
	}
	return "", false
}

type AuctionStatus string

const (
	AuctionStatusUpcoming  AuctionStatus = "Upcoming"
	AuctionStatusCompleted AuctionStatus = "Completed"
)

func ParseAuctionStatus(s string) (AuctionStatus, bool) {
	for _, st := range []AuctionStatus{AuctionStatusUpcoming, AuctionStatusCompleted} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

type Auction struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Location    Location       `gorm:"not null;column:location" json:"location"`
	AuctionDate datatypes.Date `gorm:"not null;index;column:auction_date" json:"auction_date"`
	StartTime   string         `gorm:"column:start_time" json:"start_time"`
	AuctionType AuctionType    `gorm:"not null;default:Physical;column:auction_type" json:"auction_type"`
	Theme       string         `gorm:"column:theme" json:"theme"`
	IsArchived  bool           `gorm:"not null;default:false;index;column:is_archived" json:"is_archived"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Auction) TableName() string { return "auctions" }

func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Auction) Date() time.Time { return CalendarDay(time.Time(a.AuctionDate)) }

// StatusOn is recomputed on every read; it is never stored.
func (a *Auction) StatusOn(today time.Time) AuctionStatus {
	return DeriveAuctionStatus(a.Date(), today)
}

// DeriveAuctionStatus compares calendar days: an auction dated today is still upcoming.
func DeriveAuctionStatus(auctionDate, today time.Time) AuctionStatus {
	if !CalendarDay(auctionDate).Before(CalendarDay(today)) {
		return AuctionStatusUpcoming
	}
	return AuctionStatusCompleted
}
