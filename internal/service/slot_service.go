package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/repository"
)

const clockLayout = "15:04"

// CreateSlotInput carries the fields of a new slot.
type CreateSlotInput struct {
	Date      time.Time
	StartTime string
	EndTime   string
	ServiceID uuid.UUID
}

// UpdateSlotInput is a partial update; nil fields are left untouched.
type UpdateSlotInput struct {
	Date      *time.Time
	StartTime *string
	EndTime   *string
	IsBooked  *bool
}

// SlotService manages the bookable slot inventory.
type SlotService interface {
	Available(ctx context.Context, filter repository.SlotFilter) ([]model.Slot, error)
	Create(ctx context.Context, in CreateSlotInput) (*model.Slot, error)
	CreateBulk(ctx context.Context, in []CreateSlotInput) ([]model.Slot, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateSlotInput) (*model.Slot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type slotService struct {
	repos *repository.Repositories
}

// NewSlotService builds a SlotService.
func NewSlotService(repos *repository.Repositories) SlotService {
	return &slotService{repos: repos}
}

// DateOnly truncates t to midnight UTC, the form slot and booking dates are stored in.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateWindow(start, end string) error {
	s, err := time.Parse(clockLayout, start)
	if err != nil {
		return apperrors.Validation("startTime must be HH:MM")
	}
	e, err := time.Parse(clockLayout, end)
	if err != nil {
		return apperrors.Validation("endTime must be HH:MM")
	}
	if !s.Before(e) {
		return apperrors.Validation("startTime must be before endTime")
	}
	return nil
}

func (s *slotService) Available(ctx context.Context, filter repository.SlotFilter) ([]model.Slot, error) {
	if filter.Date != nil {
		d := DateOnly(*filter.Date)
		filter.Date = &d
	}
	slots, err := s.repos.Slots.ListAvailable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

func (s *slotService) Create(ctx context.Context, in CreateSlotInput) (*model.Slot, error) {
	slots, err := s.CreateBulk(ctx, []CreateSlotInput{in})
	if err != nil {
		return nil, err
	}
	return &slots[0], nil
}

// CreateBulk inserts every slot or none of them.
func (s *slotService) CreateBulk(ctx context.Context, in []CreateSlotInput) ([]model.Slot, error) {
	if len(in) == 0 {
		return nil, apperrors.Validation("at least one slot is required")
	}

	slots := make([]model.Slot, len(in))
	for i, item := range in {
		if err := validateWindow(item.StartTime, item.EndTime); err != nil {
			return nil, err
		}
		slots[i] = model.Slot{
			Date:      DateOnly(item.Date),
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			ServiceID: item.ServiceID,
		}
	}

	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		checked := make(map[uuid.UUID]bool)
		for _, slot := range slots {
			if checked[slot.ServiceID] {
				continue
			}
			if _, err := tx.Services.FindByID(ctx, slot.ServiceID); err != nil {
				return notFound(err, apperrors.ErrServiceNotFound)
			}
			checked[slot.ServiceID] = true
		}
		if err := tx.Slots.CreateBatch(ctx, slots); err != nil {
			return fmt.Errorf("create slots: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *slotService) Update(ctx context.Context, id uuid.UUID, in UpdateSlotInput) (*model.Slot, error) {
	current, err := s.repos.Slots.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrSlotNotFound)
	}

	start, end := current.StartTime, current.EndTime
	fields := map[string]interface{}{}
	if in.StartTime != nil {
		start = *in.StartTime
		fields["start_time"] = start
	}
	if in.EndTime != nil {
		end = *in.EndTime
		fields["end_time"] = end
	}
	if in.StartTime != nil || in.EndTime != nil {
		if err := validateWindow(start, end); err != nil {
			return nil, err
		}
	}
	if in.Date != nil {
		fields["date"] = DateOnly(*in.Date)
	}
	if in.IsBooked != nil {
		fields["is_booked"] = *in.IsBooked
	}

	slot, err := s.repos.Slots.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return slot, nil
}

func (s *slotService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repos.Slots.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if !deleted {
		return apperrors.ErrSlotNotFound
	}
	return nil
}
