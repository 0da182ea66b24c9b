package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is an item tracked in a user's pantry
type Product struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Name         string              `gorm:"size:100;not null" json:"name"`
	Quantity     float64             `gorm:"not null" json:"quantity"`
	Unit         Unit                `gorm:"size:20;not null" json:"unit"`
	Category     Category            `gorm:"size:20;not null;index" json:"category"`
	Location     Location            `gorm:"size:20;not null" json:"location"`
	ExpiryDate   *time.Time          `gorm:"index" json:"expiry_date"`
	PurchaseDate time.Time           `json:"purchase_date"`
	Price        decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price"`
	Store        string              `gorm:"size:50" json:"store"`
	Barcode      string              `gorm:"size:64" json:"barcode"`
	ImageURL     string              `gorm:"size:500" json:"image_url"`
	Notes        string              `gorm:"size:500" json:"notes"`
	CreatedBy    uuid.UUID           `gorm:"type:uuid;not null;index" json:"created_by"`
	IsConsumed   bool                `gorm:"not null" json:"is_consumed"`
	ConsumedDate *time.Time          `json:"consumed_date"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = time.Now().UTC()
	}
	return nil
}
