package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfessionalDomain is a business-sector classification for clients. The
// optional payment code is used for external reporting.
type ProfessionalDomain struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	PaymentCode string    `gorm:"type:varchar(50)" json:"paymentCode"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *ProfessionalDomain) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
