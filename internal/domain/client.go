package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientType string

const (
	ClientTypeBuyer  ClientType = "Buyer"
	ClientTypeSeller ClientType = "Seller"
	ClientTypeJoint  ClientType = "Joint"
)

func ParseClientType(s string) (ClientType, bool) {
	for _, ct := range []ClientType{ClientTypeBuyer, ClientTypeSeller, ClientTypeJoint} {
		if strings.EqualFold(strings.TrimSpace(s), string(ct)) {
			return ct, true
		}
	}
	return "", false
}

type Client struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string     `gorm:"not null;column:password_hash" json:"-"`
	Phone        string     `gorm:"column:phone" json:"phone,omitempty"`
	Address      string     `gorm:"column:address" json:"address,omitempty"`
	BankDetails  string     `gorm:"column:bank_details" json:"-"`
	ClientType   ClientType `gorm:"not null;default:Buyer;column:client_type" json:"client_type"`
	IsStaff      bool       `gorm:"not null;default:false;column:is_staff" json:"is_staff"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
