package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating left by a user for a service they booked.
type Review struct {
	ID        uuid.UUID `json:"_id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	ServiceID uuid.UUID `json:"serviceId" gorm:"type:char(36);not null;index"`
	BookingID uuid.UUID `json:"bookingId" gorm:"type:char(36);not null;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
