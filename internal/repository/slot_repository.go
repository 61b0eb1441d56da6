package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carwash/internal/model"
)

// SlotFilter narrows an availability query. Zero values match everything.
type SlotFilter struct {
	Date      *time.Time
	ServiceID *uuid.UUID
}

// SlotRepository defines slot persistence operations.
type SlotRepository interface {
	Create(ctx context.Context, slot *model.Slot) error
	CreateBatch(ctx context.Context, slots []model.Slot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	ListAvailable(ctx context.Context, filter SlotFilter) ([]model.Slot, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Slot, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	Release(ctx context.Context, id uuid.UUID) error
}

type slotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *gorm.DB) SlotRepository {
	return &slotRepository{db: db}
}

// Create creates a new slot.
func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

// CreateBatch inserts several slots in one statement group.
func (r *slotRepository) CreateBatch(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&slots, 100).Error
}

// FindByID finds a slot by ID.
func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	var slot model.Slot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListAvailable lists unbooked slots with their service, ordered by date then start time.
func (r *slotRepository) ListAvailable(ctx context.Context, filter SlotFilter) ([]model.Slot, error) {
	query := r.db.WithContext(ctx).Preload("Service").Where("is_booked = ?", false)
	if filter.Date != nil {
		start := filter.Date.UTC().Truncate(24 * time.Hour)
		query = query.Where("date >= ? AND date < ?", start, start.Add(24*time.Hour))
	}
	if filter.ServiceID != nil {
		query = query.Where("service_id = ?", *filter.ServiceID)
	}

	var slots []model.Slot
	if err := query.Order("date ASC").Order("start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *slotRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Slot, error) {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.Slot{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a slot. It reports whether a row was deleted.
func (r *slotRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Slot{})
	return res.RowsAffected > 0, res.Error
}

// Claim marks a free slot as booked. It reports false when the slot was
// already booked or does not exist; at most one concurrent caller wins.
func (r *slotRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Update("is_booked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Release marks a slot as free again.
func (r *slotRepository) Release(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Slot{}).
		Where("id = ?", id).
		Update("is_booked", false).Error
}
