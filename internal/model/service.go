package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultServiceDuration is the duration in minutes used when a service is created without one.
const DefaultServiceDuration = 30

// Service is a car-wash offering listed in the catalog.
type Service struct {
	ID          uuid.UUID       `json:"_id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Duration    int             `json:"duration" gorm:"not null;default:30"` // minutes
	Image       string          `json:"image,omitempty" gorm:"size:512"`
	IsActive    bool            `json:"isActive" gorm:"not null;default:true;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID and default duration before creating the record.
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Duration <= 0 {
		s.Duration = DefaultServiceDuration
	}
	return nil
}
