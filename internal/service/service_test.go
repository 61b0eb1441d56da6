package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"carwash/internal/db"
	"carwash/internal/model"
	"carwash/internal/repository"
)

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	gormDB, err := db.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.New(gormDB)
}

type fixture struct {
	repos    *repository.Repositories
	customer *model.User
	other    *model.User
	admin    *model.User
	service  *model.Service
	slot     *model.Slot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := setupRepos(t)

	f := &fixture{repos: repos}
	f.customer = &model.User{Name: "Customer", Email: "customer@example.com", PasswordHash: "x", Phone: "1"}
	f.other = &model.User{Name: "Other", Email: "other@example.com", PasswordHash: "x", Phone: "2"}
	f.admin = &model.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Phone: "3", Role: model.RoleAdmin}
	for _, u := range []*model.User{f.customer, f.other, f.admin} {
		require.NoError(t, repos.Users.Create(ctx, u))
	}

	f.service = &model.Service{Name: "Premium Wash", Description: "Inside and out", Price: decimal.RequireFromString("49.99"), Duration: 60, IsActive: true}
	require.NoError(t, repos.Services.Create(ctx, f.service))

	f.slot = &model.Slot{Date: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "10:00", ServiceID: f.service.ID}
	require.NoError(t, repos.Slots.Create(ctx, f.slot))
	return f
}

func (f *fixture) reloadSlot(t *testing.T) *model.Slot {
	t.Helper()
	slot, err := f.repos.Slots.FindByID(context.Background(), f.slot.ID)
	require.NoError(t, err)
	return slot
}
