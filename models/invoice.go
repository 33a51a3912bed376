package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

var InvoiceStatuses = []string{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
}

func IsValidInvoiceStatus(status string) bool {
	for _, s := range InvoiceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null" json:"invoiceNumber"`
	ClientID      uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	Client        *Client   `gorm:"constraint:OnDelete:RESTRICT" json:"client,omitempty"`

	IssueDate time.Time  `json:"issueDate"`
	DueDate   *time.Time `json:"dueDate"`

	Status string `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`

	// Subtotal and Total are recomputed from the items on every write and
	// never trusted from the client.
	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Total    float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	Notes string `json:"notes"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// InvoiceItem captures a point-in-time snapshot of the product's name and
// price, independent of later product changes.
type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;index;not null" json:"invoiceId"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	Product     *Product  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	ProductName string    `gorm:"not null" json:"productName"`
	Quantity    int       `gorm:"default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Discount    float64   `gorm:"type:decimal(5,2);default:0.0" json:"discount"` // percentage 0-100
	TotalPrice  float64   `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return
}

// LineTotal applies the item's percentage discount to quantity x unit price.
func LineTotal(quantity int, unitPrice, discount float64) float64 {
	return float64(quantity) * unitPrice * (1 - discount/100)
}
