package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carwash/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	FindDetailed(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindDetailed loads a booking with its user, service and slot.
func (r *bookingRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Service").Preload("Slot").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByUser returns a customer's bookings, newest first.
func (r *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").Preload("Slot").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAll returns every booking, newest first.
func (r *bookingRepository) ListAll(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Service").Preload("Slot").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Booking{}).Error
}
