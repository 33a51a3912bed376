package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);default:0.0" json:"price"`
	Cost        float64   `gorm:"type:decimal(10,2);default:0.0" json:"cost"`
	Stock       int       `gorm:"default:0" json:"stock"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"categoryId"`
	Category   *Category  `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	BrandID    *uuid.UUID `gorm:"type:uuid;index" json:"brandId"`
	Brand      *Brand     `gorm:"constraint:OnDelete:RESTRICT" json:"brand,omitempty"`

	// Margin is computed from Price/Cost on read.
	Margin float64 `gorm:"-" json:"margin"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

func (p *Product) AfterFind(tx *gorm.DB) (err error) {
	p.Margin = p.Price - p.Cost
	return
}
