package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"carwash/internal/cache"
	apperrors "carwash/internal/errors"
	"carwash/internal/model"
	"carwash/internal/repository"
)

const (
	userCacheTTL  = 5 * time.Minute
	avatarsFolder = "avatars"
)

// UpdateProfileInput is a partial profile update; nil fields are left untouched.
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Avatar *string
}

// UserService exposes profile and user administration operations.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Profile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, src io.Reader) (*model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	images ImageStore
}

// NewUserService builds a UserService with repository and cache. cache and images may be nil.
func NewUserService(repo repository.UserRepository, cache *cache.Client, images ImageStore) UserService {
	return &userService{repo: repo, cache: cache, images: images}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Profile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validation("name must not be empty")
		}
		fields["name"] = name
	}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*in.Avatar)
	}
	return s.update(ctx, id, fields)
}

func (s *userService) UpdateAvatar(ctx context.Context, id uuid.UUID, src io.Reader) (*model.User, error) {
	if s.images == nil {
		return nil, apperrors.ErrImageStorageDisabled
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	url, err := s.images.Put(ctx, avatarsFolder, src)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, map[string]interface{}{"avatar": url})
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperrors.Validation("role must be user or admin")
	}
	return s.update(ctx, id, map[string]interface{}{"role": role})
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return apperrors.ErrUserNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *userService) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.User, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	user, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
