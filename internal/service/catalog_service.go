package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"carwash/internal/cache"
	apperrors "carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/repository"
)

const (
	catalogCacheTTL     = 5 * time.Minute
	activeServicesKey   = "services:active"
	serviceImagesFolder = "services"
)

// ImageStore normalizes an uploaded image and stores it, returning its public URL.
type ImageStore interface {
	Put(ctx context.Context, folder string, src io.Reader) (string, error)
}

// CreateServiceInput carries the fields of a new catalog entry.
type CreateServiceInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Duration    int
	Image       string
}

// UpdateServiceInput is a partial update; nil fields are left untouched.
type UpdateServiceInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Duration    *int
	Image       *string
	IsActive    *bool
}

// CatalogService manages the car-wash service catalog.
type CatalogService interface {
	List(ctx context.Context) ([]model.Service, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	Create(ctx context.Context, in CreateServiceInput) (*model.Service, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateServiceInput) (*model.Service, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetImage(ctx context.Context, id uuid.UUID, src io.Reader) (*model.Service, error)
}

type catalogService struct {
	repo   repository.ServiceRepository
	cache  *cache.Client
	images ImageStore
}

// NewCatalogService builds a CatalogService. cache and images may be nil.
func NewCatalogService(repo repository.ServiceRepository, cache *cache.Client, images ImageStore) CatalogService {
	return &catalogService{repo: repo, cache: cache, images: images}
}

func serviceKey(id uuid.UUID) string {
	return "service:" + id.String()
}

func (s *catalogService) List(ctx context.Context) ([]model.Service, error) {
	var cached []model.Service
	if s.cache.GetJSON(ctx, activeServicesKey, &cached) {
		return cached, nil
	}

	services, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	_ = s.cache.SetJSON(ctx, activeServicesKey, services, catalogCacheTTL)
	return services, nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var cached model.Service
	if s.cache.GetJSON(ctx, serviceKey(id), &cached) {
		return &cached, nil
	}

	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrServiceNotFound)
	}
	_ = s.cache.SetJSON(ctx, serviceKey(id), svc, catalogCacheTTL)
	return svc, nil
}

func (s *catalogService) Create(ctx context.Context, in CreateServiceInput) (*model.Service, error) {
	if in.Price.IsNegative() {
		return nil, apperrors.Validation("price must not be negative")
	}
	if in.Duration < 0 {
		return nil, apperrors.Validation("duration must be positive")
	}

	svc := &model.Service{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Image:       in.Image,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	s.invalidate(ctx, svc.ID)
	return svc, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, in UpdateServiceInput) (*model.Service, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, apperrors.Validation("price must not be negative")
		}
		fields["price"] = *in.Price
	}
	if in.Duration != nil {
		if *in.Duration <= 0 {
			return nil, apperrors.Validation("duration must be positive")
		}
		fields["duration"] = *in.Duration
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, apperrors.ErrServiceNotFound)
	}
	svc, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	s.invalidate(ctx, id)
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if !deleted {
		return apperrors.ErrServiceNotFound
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *catalogService) SetImage(ctx context.Context, id uuid.UUID, src io.Reader) (*model.Service, error) {
	if s.images == nil {
		return nil, apperrors.ErrImageStorageDisabled
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, apperrors.ErrServiceNotFound)
	}

	url, err := s.images.Put(ctx, serviceImagesFolder, src)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, id, UpdateServiceInput{Image: &url})
}

func (s *catalogService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, activeServicesKey, serviceKey(id))
}
