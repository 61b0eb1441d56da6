package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/repository"
)

// CreateReviewInput carries a new review. The booking must belong to the reviewer and the service.
type CreateReviewInput struct {
	UserID    uuid.UUID
	ServiceID uuid.UUID
	BookingID uuid.UUID
	Rating    int
	Comment   string
}

// ReviewService manages customer reviews.
type ReviewService interface {
	List(ctx context.Context) ([]model.Review, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error)
	Create(ctx context.Context, in CreateReviewInput) (*model.Review, error)
}

type reviewService struct {
	repos *repository.Repositories
}

// NewReviewService builds a ReviewService.
func NewReviewService(repos *repository.Repositories) ReviewService {
	return &reviewService{repos: repos}
}

func (s *reviewService) List(ctx context.Context) ([]model.Review, error) {
	reviews, err := s.repos.Reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error) {
	reviews, err := s.repos.Reviews.ListByService(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list service reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) Create(ctx context.Context, in CreateReviewInput) (*model.Review, error) {
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return nil, apperrors.Validation("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, apperrors.Validation("comment is required")
	}

	if in.BookingID == uuid.Nil {
		return nil, apperrors.Validation("bookingId is required")
	}

	if _, err := s.repos.Services.FindByID(ctx, in.ServiceID); err != nil {
		return nil, notFound(err, apperrors.ErrServiceNotFound)
	}
	booking, err := s.repos.Bookings.FindByID(ctx, in.BookingID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrBookingNotFound)
	}
	if !booking.OwnedBy(in.UserID) {
		return nil, apperrors.ErrNotAuthorized
	}
	if booking.ServiceID != in.ServiceID {
		return nil, apperrors.Validation("booking is for a different service")
	}

	review := &model.Review{
		UserID:    in.UserID,
		ServiceID: in.ServiceID,
		BookingID: in.BookingID,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := s.repos.Reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	created, err := s.repos.Reviews.FindDetailed(ctx, review.ID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrReviewNotFound)
	}
	return created, nil
}
