package service

import (
	"context"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/queue"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
)

// TxRunner runs fn inside one all-or-nothing ledger transaction.
// *repository.Ledger is the production implementation.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repository.LedgerTx) error) error
}

type StationLister interface {
	List(ctx context.Context) ([]model.Station, error)
}

type CoachTypeReader interface {
	List(ctx context.Context) ([]model.CoachType, error)
	GetByID(ctx context.Context, id uint64) (*model.CoachType, error)
}

type ScheduleReader interface {
	Search(ctx context.Context, q repository.ScheduleSearchQuery) ([]model.Schedule, error)
	GetByID(ctx context.Context, id uint64) (*model.Schedule, error)
}

type BookingReader interface {
	GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error)
	GetDetailByPNR(ctx context.Context, pnr string) (*repository.BookingDetail, error)
}

type PaymentLister interface {
	ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error)
}

// EventPublisher delivers settlement events to the broker.
type EventPublisher interface {
	PublishSettlement(ctx context.Context, ev queue.BookingSettledEvent) error
}
