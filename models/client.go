package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId"`

	FirstName string `gorm:"not null" json:"firstName"`
	LastName  string `json:"lastName"`
	// Name is derived from FirstName/LastName in BeforeSave and must not be
	// written by callers.
	Name string `gorm:"not null;index" json:"name"`

	Email     string     `gorm:"index" json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	BirthDate *time.Time `json:"birthDate"`
	Notes     string     `json:"notes"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	ProfessionalDomainID *uuid.UUID          `gorm:"type:uuid;index" json:"professionalDomainId"`
	ProfessionalDomain   *ProfessionalDomain `gorm:"constraint:OnDelete:RESTRICT" json:"professionalDomain,omitempty"`

	// Age is computed from BirthDate on read.
	Age int `gorm:"-" json:"age"`

	Invoices []Invoice `gorm:"constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (cl *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return
}

func (cl *Client) BeforeSave(tx *gorm.DB) (err error) {
	cl.Name = strings.TrimSpace(strings.TrimSpace(cl.FirstName) + " " + strings.TrimSpace(cl.LastName))
	return
}

func (cl *Client) AfterFind(tx *gorm.DB) (err error) {
	if cl.BirthDate != nil {
		now := time.Now()
		age := now.Year() - cl.BirthDate.Year()
		if now.YearDay() < cl.BirthDate.YearDay() {
			age--
		}
		if age > 0 {
			cl.Age = age
		}
	}
	return
}
