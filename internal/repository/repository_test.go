package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carwash/internal/db"
	"carwash/internal/model"
)

func setupRepos(t *testing.T) (*Repositories, *gorm.DB) {
	t.Helper()
	gormDB, err := db.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(gormDB), gormDB
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedService(t *testing.T, repos *Repositories, name string) *model.Service {
	t.Helper()
	svc := &model.Service{
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromInt(25),
		IsActive:    true,
	}
	require.NoError(t, repos.Services.Create(context.Background(), svc))
	return svc
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	user := &model.User{Name: "Jane", Email: "jane@example.com", PasswordHash: "hash", Phone: "555"}
	require.NoError(t, repos.Users.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)

	byEmail, err := repos.Users.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repos.Users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dup := &model.User{Name: "Other", Email: "jane@example.com", PasswordHash: "hash", Phone: "1"}
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), gorm.ErrDuplicatedKey)

	updated, err := repos.Users.UpdateFields(ctx, user.ID, map[string]interface{}{"role": model.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())

	deleted, err := repos.Users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repos.Users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestServiceRepository_ListActive(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	active := seedService(t, repos, "Basic Wash")
	hidden := seedService(t, repos, "Retired Wash")
	_, err := repos.Services.UpdateFields(ctx, hidden.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)

	services, err := repos.Services.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, active.ID, services[0].ID)
	assert.Equal(t, model.DefaultServiceDuration, services[0].Duration)
	assert.True(t, decimal.NewFromInt(25).Equal(services[0].Price))

	got, err := repos.Services.FindByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestSlotRepository_ListAvailable(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	wash := seedService(t, repos, "Wash")
	wax := seedService(t, repos, "Wax")

	slots := []model.Slot{
		{Date: day("2026-03-01"), StartTime: "10:00", EndTime: "10:30", ServiceID: wash.ID},
		{Date: day("2026-03-01"), StartTime: "09:00", EndTime: "09:30", ServiceID: wax.ID},
		{Date: day("2026-03-02"), StartTime: "09:00", EndTime: "09:30", ServiceID: wash.ID},
		{Date: day("2026-03-01"), StartTime: "11:00", EndTime: "11:30", ServiceID: wash.ID},
	}
	require.NoError(t, repos.Slots.CreateBatch(ctx, slots))
	for _, s := range slots {
		assert.NotEqual(t, uuid.Nil, s.ID)
	}
	_, err := repos.Slots.UpdateFields(ctx, slots[3].ID, map[string]interface{}{"is_booked": true})
	require.NoError(t, err)

	date := day("2026-03-01")
	tests := []struct {
		name   string
		filter SlotFilter
		want   []uuid.UUID
	}{
		{"no filter", SlotFilter{}, []uuid.UUID{slots[1].ID, slots[0].ID, slots[2].ID}},
		{"by date", SlotFilter{Date: &date}, []uuid.UUID{slots[1].ID, slots[0].ID}},
		{"by service", SlotFilter{ServiceID: &wash.ID}, []uuid.UUID{slots[0].ID, slots[2].ID}},
		{"by date and service", SlotFilter{Date: &date, ServiceID: &wax.ID}, []uuid.UUID{slots[1].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Slots.ListAvailable(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]uuid.UUID, len(got))
			for i, s := range got {
				ids[i] = s.ID
				require.NotNil(t, s.Service)
				assert.Equal(t, s.ServiceID, s.Service.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSlotRepository_ClaimAndRelease(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	svc := seedService(t, repos, "Wash")
	slot := &model.Slot{Date: day("2026-03-01"), StartTime: "10:00", EndTime: "10:30", ServiceID: svc.ID}
	require.NoError(t, repos.Slots.Create(ctx, slot))

	ok, err := repos.Slots.Claim(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Slots.Claim(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must lose")

	ok, err = repos.Slots.Claim(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repos.Slots.Release(ctx, slot.ID))
	got, err := repos.Slots.FindByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBooked)
}

func TestRepositories_WithTransactionRollsBack(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	svc := seedService(t, repos, "Wash")
	slot := &model.Slot{Date: day("2026-03-01"), StartTime: "10:00", EndTime: "10:30", ServiceID: svc.ID}
	require.NoError(t, repos.Slots.Create(ctx, slot))

	err := repos.WithTransaction(ctx, func(ctx context.Context, tx *Repositories) error {
		ok, err := tx.Slots.Claim(ctx, slot.ID)
		require.NoError(t, err)
		require.True(t, ok)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := repos.Slots.FindByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBooked)
}

func TestBookingRepository_ListByUser(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	svc := seedService(t, repos, "Wash")
	owner := &model.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x", Phone: "1"}
	other := &model.User{Name: "Other", Email: "other@example.com", PasswordHash: "x", Phone: "2"}
	require.NoError(t, repos.Users.Create(ctx, owner))
	require.NoError(t, repos.Users.Create(ctx, other))

	slot := &model.Slot{Date: day("2026-03-01"), StartTime: "10:00", EndTime: "10:30", ServiceID: svc.ID}
	require.NoError(t, repos.Slots.Create(ctx, slot))

	booking := &model.Booking{
		UserID: owner.ID, ServiceID: svc.ID, SlotID: slot.ID,
		Date: slot.Date, StartTime: slot.StartTime, EndTime: slot.EndTime,
		TotalPrice: svc.Price,
	}
	require.NoError(t, repos.Bookings.Create(ctx, booking))
	assert.Equal(t, model.BookingStatusPending, booking.Status)

	mine, err := repos.Bookings.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Service)
	require.NotNil(t, mine[0].Slot)
	assert.Equal(t, slot.ID, mine[0].Slot.ID)

	theirs, err := repos.Bookings.ListByUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	require.NoError(t, repos.Bookings.UpdateStatus(ctx, booking.ID, model.BookingStatusCompleted))
	detailed, err := repos.Bookings.FindDetailed(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, detailed.Status)
	require.NotNil(t, detailed.User)
	assert.Equal(t, "owner@example.com", detailed.User.Email)

	require.NoError(t, repos.Bookings.Delete(ctx, booking.ID))
	_, err = repos.Bookings.FindByID(ctx, booking.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewRepository_NewestFirst(t *testing.T) {
	repos, _ := setupRepos(t)
	ctx := context.Background()

	wash := seedService(t, repos, "Wash")
	wax := seedService(t, repos, "Wax")
	user := &model.User{Name: "Rev", Email: "rev@example.com", PasswordHash: "x", Phone: "1"}
	require.NoError(t, repos.Users.Create(ctx, user))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviews := []*model.Review{
		{UserID: user.ID, ServiceID: wash.ID, BookingID: uuid.New(), Rating: 4, Comment: "older", CreatedAt: base},
		{UserID: user.ID, ServiceID: wash.ID, BookingID: uuid.New(), Rating: 5, Comment: "newer", CreatedAt: base.Add(time.Hour)},
		{UserID: user.ID, ServiceID: wax.ID, BookingID: uuid.New(), Rating: 3, Comment: "wax", CreatedAt: base.Add(30 * time.Minute)},
	}
	for _, r := range reviews {
		require.NoError(t, repos.Reviews.Create(ctx, r))
	}

	byService, err := repos.Reviews.ListByService(ctx, wash.ID)
	require.NoError(t, err)
	require.Len(t, byService, 2)
	assert.Equal(t, "newer", byService[0].Comment)
	assert.Equal(t, "older", byService[1].Comment)
	require.NotNil(t, byService[0].User)

	all, err := repos.Reviews.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newer", "wax", "older"}, []string{all[0].Comment, all[1].Comment, all[2].Comment})
}
