package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Daily logs are an append-only-until-closed roll-up of the clients or
// orders processed on a given date. Once closed a log is frozen: closing is
// a one-way transition and no further entries are accepted.

type ClientDailyLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdBy"`
	CreatedByUser   *User     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`

	IsClosed bool       `gorm:"not null;default:false" json:"isClosed"`
	ClosedAt *time.Time `json:"closedAt"`

	Entries []ClientLogEntry `gorm:"foreignKey:LogID" json:"entries,omitempty"`

	// TotalClients is the entry count, computed on read.
	TotalClients int `gorm:"-" json:"totalClients"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *ClientDailyLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// ClientLogEntry is owned exclusively by its parent log. The composite
// unique index rejects a second entry for the same client in one log.
type ClientLogEntry struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	LogID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_log_client,priority:1" json:"logId"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_client_log_client,priority:2" json:"clientId"`
	Client   *Client   `gorm:"constraint:OnDelete:RESTRICT" json:"client,omitempty"`
	Notes    string    `json:"notes"`
	AddedAt  time.Time `json:"addedAt"`
}

func (e *ClientLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now()
	}
	return
}

type OrderDailyLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex" json:"date"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdBy"`
	CreatedByUser   *User     `gorm:"constraint:OnDelete:RESTRICT" json:"-"`

	IsClosed bool       `gorm:"not null;default:false" json:"isClosed"`
	ClosedAt *time.Time `json:"closedAt"`

	Entries []OrderLogEntry `gorm:"foreignKey:LogID" json:"entries,omitempty"`

	TotalOrders int `gorm:"-" json:"totalOrders"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *OrderDailyLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

type OrderLogEntry struct {
	ID      uuid.UUID `gorm:"type:uuid;not null;primary_key" json:"id"`
	LogID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_log_order,priority:1" json:"logId"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_log_order,priority:2" json:"orderId"`
	Order   *Order    `gorm:"constraint:OnDelete:RESTRICT" json:"order,omitempty"`
	Notes   string    `json:"notes"`
	AddedAt time.Time `json:"addedAt"`
}

func (e *OrderLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now()
	}
	return
}
