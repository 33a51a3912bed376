package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId"`

	OrderNumber string    `gorm:"uniqueIndex;not null" json:"orderNumber"`
	ClientID    uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	Client      *Client   `gorm:"constraint:OnDelete:RESTRICT" json:"client,omitempty"`

	OrderDate time.Time `json:"orderDate"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	Subtotal float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Total    float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	Notes string `json:"notes"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	Product     *Product  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	ProductName string    `gorm:"not null" json:"productName"`
	Quantity    int       `gorm:"default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Discount    float64   `gorm:"type:decimal(5,2);default:0.0" json:"discount"`
	TotalPrice  float64   `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
}

func (it *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return
}
