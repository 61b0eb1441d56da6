package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/repository"
)

// errSlotMissing answers like an unavailable slot while still matching ErrSlotNotFound.
var errSlotMissing = fmt.Errorf("%w: %w", apperrors.ErrSlotUnavailable, apperrors.ErrSlotNotFound)

// BookingRecorder receives booking outcomes, typically for metrics.
type BookingRecorder interface {
	BookingCreated()
	BookingRejected(reason string)
	BookingCancelled()
	BookingStatusChanged(status model.BookingStatus)
}

type nopRecorder struct{}

func (nopRecorder) BookingCreated()                          {}
func (nopRecorder) BookingRejected(string)                   {}
func (nopRecorder) BookingCancelled()                        {}
func (nopRecorder) BookingStatusChanged(model.BookingStatus) {}

// CreateBookingInput carries a booking request. Zero-valued optional fields
// are filled in from the slot and its service.
type CreateBookingInput struct {
	UserID     uuid.UUID
	SlotID     uuid.UUID
	ServiceID  uuid.UUID
	Date       *time.Time
	StartTime  string
	EndTime    string
	TotalPrice *decimal.Decimal
	Notes      string
}

// BookingOptions tunes the booking service.
type BookingOptions struct {
	// StrictStatus enforces pending -> confirmed -> completed, with cancelled
	// reachable from any non-terminal status.
	StrictStatus bool
	Logger       Logger
	Recorder     BookingRecorder
}

// BookingService orchestrates slot claims and booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole model.Role) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
}

type bookingService struct {
	repos    *repository.Repositories
	strict   bool
	log      Logger
	recorder BookingRecorder
}

// NewBookingService builds a BookingService.
func NewBookingService(repos *repository.Repositories, opts BookingOptions) BookingService {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &bookingService{
		repos:    repos,
		strict:   opts.StrictStatus,
		log:      loggerOrNop(opts.Logger),
		recorder: recorder,
	}
}

// Create claims the slot and records a confirmed booking in one transaction.
// Two requests racing for the same slot can never both succeed.
func (s *bookingService) Create(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	var booking *model.Booking

	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		slot, err := tx.Slots.FindByID(ctx, in.SlotID)
		if err != nil {
			return notFound(err, errSlotMissing)
		}
		if slot.IsBooked {
			return apperrors.ErrSlotUnavailable
		}
		if in.ServiceID != uuid.Nil && in.ServiceID != slot.ServiceID {
			return apperrors.Validation("slot does not belong to the selected service")
		}

		svc, err := tx.Services.FindByID(ctx, slot.ServiceID)
		if err != nil {
			return notFound(err, apperrors.ErrServiceNotFound)
		}

		claimed, err := tx.Slots.Claim(ctx, slot.ID)
		if err != nil {
			return fmt.Errorf("claim slot: %w", err)
		}
		if !claimed {
			return apperrors.ErrSlotUnavailable
		}

		booking = newBooking(in, slot, svc)
		if err := tx.Bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recorder.BookingRejected(rejectReason(err))
		if errors.Is(err, apperrors.ErrSlotUnavailable) {
			s.log.Warnf("booking rejected: slot %s unavailable for user %s", in.SlotID, in.UserID)
		}
		return nil, err
	}

	s.recorder.BookingCreated()
	s.log.Infof("booking %s created for slot %s", booking.ID, booking.SlotID)
	return booking, nil
}

func newBooking(in CreateBookingInput, slot *model.Slot, svc *model.Service) *model.Booking {
	b := &model.Booking{
		UserID:     in.UserID,
		ServiceID:  slot.ServiceID,
		SlotID:     slot.ID,
		Date:       slot.Date,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
		TotalPrice: svc.Price,
		Status:     model.BookingStatusConfirmed,
		Notes:      in.Notes,
	}
	if in.Date != nil {
		b.Date = DateOnly(*in.Date)
	}
	if in.StartTime != "" {
		b.StartTime = in.StartTime
	}
	if in.EndTime != "" {
		b.EndTime = in.EndTime
	}
	if in.TotalPrice != nil {
		b.TotalPrice = *in.TotalPrice
	}
	return b
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, apperrors.ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case errors.Is(err, apperrors.ErrServiceNotFound):
		return "service_not_found"
	default:
		return "error"
	}
}

// Cancel releases the slot and deletes the booking. Only the owner or an admin may cancel.
func (s *bookingService) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole model.Role) error {
	err := s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		booking, err := tx.Bookings.FindByID(ctx, bookingID)
		if err != nil {
			return notFound(err, apperrors.ErrBookingNotFound)
		}
		if !booking.OwnedBy(requesterID) && requesterRole != model.RoleAdmin {
			return apperrors.ErrNotAuthorized
		}

		if err := tx.Slots.Release(ctx, booking.SlotID); err != nil {
			return fmt.Errorf("release slot: %w", err)
		}
		if err := tx.Bookings.Delete(ctx, booking.ID); err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotAuthorized) {
			s.log.Warnf("user %s denied cancelling booking %s", requesterID, bookingID)
		}
		return err
	}

	s.recorder.BookingCancelled()
	s.log.Infof("booking %s cancelled by %s", bookingID, requesterID)
	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("status must be one of pending, confirmed, completed, cancelled")
	}

	booking, err := s.repos.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrBookingNotFound)
	}
	if s.strict && !model.CanTransition(booking.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s is not allowed, valid transitions from %s: %s",
			apperrors.ErrInvalidStatusTransition, booking.Status, status,
			booking.Status, model.DescribeTransitionsFrom(booking.Status))
	}

	if err := s.repos.Bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	s.recorder.BookingStatusChanged(status)

	updated, err := s.repos.Bookings.FindDetailed(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrBookingNotFound)
	}
	return updated, nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	bookings, err := s.repos.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	bookings, err := s.repos.Bookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
