package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "carwash/internal/errors"
	"carwash/internal/repository"
)

// MockImageStore is a mock implementation of ImageStore.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, folder string, src io.Reader) (string, error) {
	args := m.Called(ctx, folder, src)
	return args.String(0), args.Error(1)
}

func TestCatalogService_CRUD(t *testing.T) {
	repos := setupRepos(t)
	svc := NewCatalogService(repos.Services, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateServiceInput{Name: "Basic", Description: "Exterior", Price: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, 30, created.Duration)
	assert.True(t, created.IsActive)

	name := "Basic Plus"
	inactive := false
	updated, err := svc.Update(ctx, created.ID, UpdateServiceInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Basic Plus", updated.Name)
	assert.Equal(t, "Exterior", updated.Description)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Update(ctx, created.ID, UpdateServiceInput{IsActive: &inactive})
	require.NoError(t, err)
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), apperrors.ErrServiceNotFound)
}

func TestCatalogService_Validation(t *testing.T) {
	repos := setupRepos(t)
	svc := NewCatalogService(repos.Services, nil, nil)

	_, err := svc.Create(context.Background(), CreateServiceInput{Name: "Bad", Description: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	zero := 0
	_, err = svc.Update(context.Background(), uuid.New(), UpdateServiceInput{Duration: &zero})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCatalogService_SetImage(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	t.Run("storage disabled", func(t *testing.T) {
		svc := NewCatalogService(repos.Services, nil, nil)
		_, err := svc.SetImage(ctx, uuid.New(), strings.NewReader("img"))
		assert.ErrorIs(t, err, apperrors.ErrImageStorageDisabled)
		assert.Equal(t, 503, apperrors.MapErrorToHTTP(err).StatusCode)
	})

	t.Run("stores url", func(t *testing.T) {
		images := new(MockImageStore)
		svc := NewCatalogService(repos.Services, nil, images)
		created, err := svc.Create(ctx, CreateServiceInput{Name: "Wax", Description: "Shine", Price: decimal.NewFromInt(20)})
		require.NoError(t, err)

		images.On("Put", mock.Anything, "services", mock.Anything).Return("https://cdn.example.com/services/a.webp", nil)
		got, err := svc.SetImage(ctx, created.ID, strings.NewReader("img"))
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/services/a.webp", got.Image)
		images.AssertExpectations(t)
	})
}

func TestSlotService_CreateBulkIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewSlotService(f.repos)
	ctx := context.Background()
	date := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)

	_, err := svc.CreateBulk(ctx, []CreateSlotInput{
		{Date: date, StartTime: "08:00", EndTime: "08:30", ServiceID: f.service.ID},
		{Date: date, StartTime: "09:00", EndTime: "09:30", ServiceID: uuid.New()},
	})
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)

	day := DateOnly(date)
	available, err := svc.Available(ctx, repository.SlotFilter{Date: &day})
	require.NoError(t, err)
	assert.Empty(t, available)

	slots, err := svc.CreateBulk(ctx, []CreateSlotInput{
		{Date: date, StartTime: "08:00", EndTime: "08:30", ServiceID: f.service.ID},
		{Date: date, StartTime: "09:00", EndTime: "09:30", ServiceID: f.service.ID},
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, day, slots[0].Date.UTC())

	available, err = svc.Available(ctx, repository.SlotFilter{Date: &date})
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestSlotService_ValidatesWindow(t *testing.T) {
	f := newFixture(t)
	svc := NewSlotService(f.repos)

	tests := []struct {
		name       string
		start, end string
	}{
		{"bad start", "9am", "10:00"},
		{"bad end", "09:00", "25:00"},
		{"reversed", "10:00", "09:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), CreateSlotInput{Date: time.Now(), StartTime: tt.start, EndTime: tt.end, ServiceID: f.service.ID})
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestSlotService_UpdateIsBooked(t *testing.T) {
	f := newFixture(t)
	svc := NewSlotService(f.repos)
	ctx := context.Background()

	booked := true
	got, err := svc.Update(ctx, f.slot.ID, UpdateSlotInput{IsBooked: &booked})
	require.NoError(t, err)
	assert.True(t, got.IsBooked)

	booked = false
	got, err = svc.Update(ctx, f.slot.ID, UpdateSlotInput{IsBooked: &booked})
	require.NoError(t, err)
	assert.False(t, got.IsBooked)

	_, err = svc.Update(ctx, uuid.New(), UpdateSlotInput{IsBooked: &booked})
	assert.ErrorIs(t, err, apperrors.ErrSlotNotFound)
	assert.Equal(t, 404, apperrors.MapErrorToHTTP(err).StatusCode)

	require.NoError(t, svc.Delete(ctx, f.slot.ID))
	assert.ErrorIs(t, svc.Delete(ctx, f.slot.ID), apperrors.ErrSlotNotFound)
}
