package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LotImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LotID        uuid.UUID `gorm:"type:uuid;not null;index;column:lot_id" json:"lot_id"`
	ImageURL     string    `gorm:"not null;column:image_url" json:"image_url"`
	ThumbnailURL *string   `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	StorageKey   string    `gorm:"not null;column:storage_key" json:"-"`
	ThumbnailKey *string   `gorm:"column:thumbnail_key" json:"-"`
	IsPrimary    bool      `gorm:"not null;default:false;column:is_primary" json:"is_primary"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order" json:"display_order"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (LotImage) TableName() string { return "lot_images" }

func (i *LotImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PrimaryImage picks the flagged primary, else the first by display order.
func PrimaryImage(images []*LotImage) *LotImage {
	var first *LotImage
	for _, img := range images {
		if img == nil {
			continue
		}
		if img.IsPrimary {
			return img
		}
		if first == nil || img.DisplayOrder < first.DisplayOrder {
			first = img
		}
	}
	return first
}
