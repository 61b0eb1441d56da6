package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents the status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a user's reservation of a slot.
type Booking struct {
	ID         uuid.UUID       `json:"_id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	ServiceID  uuid.UUID       `json:"serviceId" gorm:"type:char(36);not null;index"`
	SlotID     uuid.UUID       `json:"slotId" gorm:"type:char(36);not null;index"`
	Date       time.Time       `json:"date" gorm:"not null"`
	StartTime  string          `json:"startTime" gorm:"size:5;not null"`
	EndTime    string          `json:"endTime" gorm:"size:5;not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(10,2);not null"`
	Status     BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes      string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Slot    *Slot    `json:"slot,omitempty" gorm:"foreignKey:SlotID"`
}

// BeforeCreate sets UUID and default status before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	return nil
}

// OwnedBy reports whether the booking belongs to userID.
func (b *Booking) OwnedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}
