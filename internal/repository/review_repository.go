package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carwash/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindDetailed(ctx context.Context, id uuid.UUID) (*model.Review, error)
	List(ctx context.Context) ([]model.Review, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindDetailed loads a review with its author and service.
func (r *reviewRepository) FindDetailed(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Service").
		Where("id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// List returns all reviews, newest first.
func (r *reviewRepository) List(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Service").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListByService returns a service's reviews, newest first.
func (r *reviewRepository) ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
