package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Slot is a bookable time window for a specific service.
type Slot struct {
	ID        uuid.UUID `json:"_id" gorm:"type:char(36);primaryKey"`
	Date      time.Time `json:"date" gorm:"not null;index"`
	StartTime string    `json:"startTime" gorm:"size:5;not null"` // HH:MM
	EndTime   string    `json:"endTime" gorm:"size:5;not null"`   // HH:MM
	IsBooked  bool      `json:"isBooked" gorm:"not null;default:false;index"`
	ServiceID uuid.UUID `json:"serviceId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Slot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
