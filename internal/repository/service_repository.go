package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carwash/internal/model"
)

// ServiceRepository defines catalog persistence operations.
type ServiceRepository interface {
	Create(ctx context.Context, service *model.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	ListActive(ctx context.Context) ([]model.Service, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Service, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new catalog repository.
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

// Create creates a new service.
func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

// FindByID finds a service by ID regardless of its active flag.
func (r *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var service model.Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// ListActive lists all active services.
func (r *serviceRepository) ListActive(ctx context.Context) ([]model.Service, error) {
	var services []model.Service
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *serviceRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Service, error) {
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(&model.Service{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a service. It reports whether a row was deleted.
func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Service{})
	return res.RowsAffected > 0, res.Error
}
