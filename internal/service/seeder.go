package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"carwash/internal/model"
	"carwash/internal/repository"
)

// SeedUser describes an account created at startup when missing.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     model.Role
}

// SeedService describes a catalog entry plus the daily slot times to open for it.
type SeedService struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration"`
	Image       string          `json:"image"`
	SlotTimes   []string        `json:"slotTimes"`
}

// DefaultSeedUsers returns the admin account and the demo customer.
func DefaultSeedUsers(adminEmail, adminPassword string) []SeedUser {
	return []SeedUser{
		{Name: "Admin User", Email: adminEmail, Password: adminPassword, Phone: "+8801700000000", Role: model.RoleAdmin},
		{Name: "Test User", Email: "reviewer@carwash.com", Password: "12345678", Phone: "+8801700000001", Role: model.RoleUser},
	}
}

// Seeder inserts bootstrap data. Every method is idempotent.
type Seeder struct {
	repos *repository.Repositories
	log   Logger
}

// NewSeeder builds a Seeder.
func NewSeeder(repos *repository.Repositories, log Logger) *Seeder {
	return &Seeder{repos: repos, log: loggerOrNop(log)}
}

// SeedUsers creates each user whose email is not yet registered. It returns the number created.
func (s *Seeder) SeedUsers(ctx context.Context, users []SeedUser) (int, error) {
	created := 0
	for _, u := range users {
		email := NormalizeEmail(u.Email)
		_, err := s.repos.Users.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("check seed user %s: %w", email, err)
		}

		hash, err := HashPassword(u.Password)
		if err != nil {
			return created, err
		}
		user := &model.User{Name: u.Name, Email: email, PasswordHash: hash, Phone: u.Phone, Role: u.Role}
		if err := s.repos.Users.Create(ctx, user); err != nil {
			return created, fmt.Errorf("create seed user %s: %w", email, err)
		}
		s.log.Infof("seeded %s user %s", u.Role, email)
		created++
	}
	return created, nil
}

// SeedCatalog creates services missing by name and opens their slots for the
// given number of days starting at from. It returns the services and slots created.
func (s *Seeder) SeedCatalog(ctx context.Context, services []SeedService, from time.Time, days int) (int, int, error) {
	existing, err := s.repos.Services.ListActive(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list services: %w", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, svc := range existing {
		byName[svc.Name] = true
	}

	servicesCreated, slotsCreated := 0, 0
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		for _, item := range services {
			if byName[item.Name] {
				continue
			}
			svc := &model.Service{
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				Duration:    item.Duration,
				Image:       item.Image,
				IsActive:    true,
			}
			if err := tx.Services.Create(ctx, svc); err != nil {
				return fmt.Errorf("create service %s: %w", item.Name, err)
			}
			servicesCreated++

			slots, err := seedSlots(svc, item.SlotTimes, from, days)
			if err != nil {
				return err
			}
			if err := tx.Slots.CreateBatch(ctx, slots); err != nil {
				return fmt.Errorf("create slots for %s: %w", item.Name, err)
			}
			slotsCreated += len(slots)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return servicesCreated, slotsCreated, nil
}

func seedSlots(svc *model.Service, times []string, from time.Time, days int) ([]model.Slot, error) {
	slots := make([]model.Slot, 0, len(times)*days)
	length := time.Duration(svc.Duration) * time.Minute
	for d := 0; d < days; d++ {
		date := DateOnly(from).AddDate(0, 0, d)
		for _, start := range times {
			t, err := time.Parse(clockLayout, start)
			if err != nil {
				return nil, fmt.Errorf("seed slot time %q: %w", start, err)
			}
			slots = append(slots, model.Slot{
				Date:      date,
				StartTime: start,
				EndTime:   t.Add(length).Format(clockLayout),
				ServiceID: svc.ID,
			})
		}
	}
	return slots, nil
}
