package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Users    UserRepository
	Services ServiceRepository
	Slots    SlotRepository
	Bookings BookingRepository
	Reviews  ReviewRepository

	db *gorm.DB
}

// Transactor runs a unit of work atomically.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}

// New builds the repository set over db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Services: NewServiceRepository(db),
		Slots:    NewSlotRepository(db),
		Bookings: NewBookingRepository(db),
		Reviews:  NewReviewRepository(db),
		db:       db,
	}
}

// WithTransaction executes fn with repositories bound to a single transaction.
// Any error returned by fn rolls the transaction back.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
}
