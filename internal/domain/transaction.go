package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is the durable audit record of a completed sale.
type Transaction struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LotID                 uuid.UUID  `gorm:"type:uuid;not null;index;column:lot_id" json:"lot_id"`
	BuyerID               *uuid.UUID `gorm:"type:uuid;index;column:buyer_id" json:"buyer_id,omitempty"`
	SellerID              uuid.UUID  `gorm:"type:uuid;not null;index;column:seller_id" json:"seller_id"`
	HammerPrice           float64    `gorm:"not null;column:hammer_price" json:"hammer_price"`
	BuyersPremiumRate     float64    `gorm:"not null;column:buyers_premium_rate" json:"buyers_premium_rate"`
	BuyersPremium         float64    `gorm:"not null;column:buyers_premium" json:"buyers_premium"`
	SellersCommissionRate float64    `gorm:"not null;column:sellers_commission_rate" json:"sellers_commission_rate"`
	SellersCommission     float64    `gorm:"not null;column:sellers_commission" json:"sellers_commission"`
	TotalBuyerPays        float64    `gorm:"not null;column:total_buyer_pays" json:"total_buyer_pays"`
	TotalSellerReceives   float64    `gorm:"not null;column:total_seller_receives" json:"total_seller_receives"`
	TransactionDate       time.Time  `gorm:"not null;column:transaction_date" json:"transaction_date"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
