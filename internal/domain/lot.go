package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LotStatus string

const (
	LotStatusPending   LotStatus = "Pending"
	LotStatusListed    LotStatus = "Listed"
	LotStatusSold      LotStatus = "Sold"
	LotStatusUnsold    LotStatus = "Unsold"
	LotStatusWithdrawn LotStatus = "Withdrawn"

	// LotStatusArchived is only ever reported, never stored.
	LotStatusArchived LotStatus = "Archived"
)

func ParseLotStatus(s string) (LotStatus, bool) {
	for _, st := range []LotStatus{LotStatusPending, LotStatusListed, LotStatusSold, LotStatusUnsold, LotStatusWithdrawn, LotStatusArchived} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

type TriageStatus string

const (
	TriagePhysical TriageStatus = "Physical"
	TriageOnline   TriageStatus = "Online"
)

func ParseTriageStatus(s string) (TriageStatus, bool) {
	for _, ts := range []TriageStatus{TriagePhysical, TriageOnline} {
		if strings.EqualFold(strings.TrimSpace(s), string(ts)) {
			return ts, true
		}
	}
	return "", false
}

const DefaultCategory = "Fine Art"

type Lot struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	LotReference   string       `gorm:"uniqueIndex;not null;column:lot_reference" json:"lot_reference"`
	Artist         string       `gorm:"not null;index;column:artist" json:"artist"`
	Title          string       `gorm:"not null;column:title" json:"title"`
	Year           *int         `gorm:"column:year" json:"year,omitempty"`
	Category       string       `gorm:"not null;default:'Fine Art';index;column:category" json:"category"`
	Dimensions     string       `gorm:"column:dimensions" json:"dimensions,omitempty"`
	Framing        string       `gorm:"column:framing" json:"framing,omitempty"`
	Material       string       `gorm:"column:material" json:"material,omitempty"`
	Description    string       `gorm:"column:description" json:"description,omitempty"`
	EstimateLow    float64      `gorm:"not null;column:estimate_low" json:"estimate_low"`
	EstimateHigh   float64      `gorm:"not null;column:estimate_high" json:"estimate_high"`
	ReservePrice   float64      `gorm:"not null;column:reserve_price" json:"reserve_price"`
	SoldPrice      *float64     `gorm:"column:sold_price" json:"sold_price,omitempty"`
	CommissionBids bool         `gorm:"not null;default:false;column:commission_bids" json:"commission_bids"`
	TriageStatus   TriageStatus `gorm:"not null;column:triage_status" json:"triage_status"`
	Status         LotStatus    `gorm:"not null;index;column:status" json:"status"`
	IsArchived     bool         `gorm:"not null;default:false;index;column:is_archived" json:"is_archived"`

	WithdrawalFee float64         `gorm:"not null;default:0;column:withdrawal_fee" json:"withdrawal_fee"`
	WithdrawnDate *datatypes.Date `gorm:"column:withdrawn_date" json:"withdrawn_date,omitempty"`

	SellerID  uuid.UUID  `gorm:"type:uuid;not null;index;column:seller_id" json:"seller_id"`
	AuctionID *uuid.UUID `gorm:"type:uuid;index;column:auction_id" json:"auction_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lot) TableName() string { return "lots" }

func (l *Lot) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ReportedStatus overlays Archived on top of the stored status without replacing it.
func (l *Lot) ReportedStatus() LotStatus {
	if l.IsArchived {
		return LotStatusArchived
	}
	return l.Status
}

func (l *Lot) OwnedBy(clientID uuid.UUID) bool {
	return clientID != uuid.Nil && l.SellerID == clientID
}

// CanAssign reports whether the lot may be (re)listed in an auction.
func (l *Lot) CanAssign() bool { return l.Status != LotStatusSold }

func (l *Lot) CanWithdraw() bool {
	return l.Status != LotStatusSold && l.Status != LotStatusWithdrawn
}

func (l *Lot) CanSell() bool {
	return l.Status != LotStatusSold && l.Status != LotStatusWithdrawn
}

// PatchableStatus lists the stored statuses an update may set directly.
func PatchableStatus(s LotStatus) bool {
	switch s {
	case LotStatusPending, LotStatusListed, LotStatusUnsold:
		return true
	}
	return false
}
