package handler

import (
	"context"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/service"
)

// Catalog is the read side used before booking.  *service.CatalogService
// implements it.
type Catalog interface {
	ListStations(ctx context.Context) ([]model.Station, error)
	ListCoachTypes(ctx context.Context) ([]service.PricedCoachType, error)
	GetCoachType(ctx context.Context, id uint64) (*service.PricedCoachType, error)
	SearchSchedules(ctx context.Context, q repository.ScheduleSearchQuery) ([]model.Schedule, error)
	GetSchedule(ctx context.Context, id uint64) (*model.Schedule, error)
}

// Bookings creates bookings and looks them up.  *service.BookingService
// implements it.
type Bookings interface {
	CreateBooking(ctx context.Context, req service.NewBooking) (*service.Reservation, error)
	GetBooking(ctx context.Context, id uint64) (*repository.BookingDetail, error)
	GetTicket(ctx context.Context, pnr string) (*repository.BookingDetail, error)
	ListPayments(ctx context.Context, bookingID uint64) ([]model.Payment, error)
}

// Settler settles payments.  *service.PaymentService implements it.
type Settler interface {
	Settle(ctx context.Context, st service.Settlement) (model.BookingStatus, error)
}
