package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// CatalogService serves the read-only reference data and schedule lookups
// used before a booking is made.
type CatalogService struct {
	stations   StationLister
	coachTypes CoachTypeReader
	schedules  ScheduleReader
}

func NewCatalogService(stations StationLister, coachTypes CoachTypeReader, schedules ScheduleReader) *CatalogService {
	if stations == nil || coachTypes == nil || schedules == nil {
		panic("nil dependency passed to NewCatalogService")
	}
	return &CatalogService{stations: stations, coachTypes: coachTypes, schedules: schedules}
}

// PricedCoachType is a coach type with its payable fare.
type PricedCoachType struct {
	model.CoachType
	Fare decimal.Decimal
}

func (s *CatalogService) ListStations(ctx context.Context) ([]model.Station, error) {
	out, err := s.stations.List(ctx)
	if err != nil {
		return nil, storageErr("list stations", err)
	}
	return out, nil
}

// ListCoachTypes returns every coach type priced with FareAmount.
func (s *CatalogService) ListCoachTypes(ctx context.Context) ([]PricedCoachType, error) {
	cts, err := s.coachTypes.List(ctx)
	if err != nil {
		return nil, storageErr("list coach types", err)
	}
	out := make([]PricedCoachType, 0, len(cts))
	for _, ct := range cts {
		out = append(out, PricedCoachType{CoachType: ct, Fare: utils.FareAmount(ct.BaseFare, ct.FareMultiplier)})
	}
	return out, nil
}

func (s *CatalogService) GetCoachType(ctx context.Context, id uint64) (*PricedCoachType, error) {
	ct, err := s.coachTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCoachTypeNotFound
		}
		return nil, storageErr("get coach type", err)
	}
	return &PricedCoachType{CoachType: *ct, Fare: utils.FareAmount(ct.BaseFare, ct.FareMultiplier)}, nil
}

// SearchSchedules lists the schedules of a route on a date.
func (s *CatalogService) SearchSchedules(ctx context.Context, q repository.ScheduleSearchQuery) ([]model.Schedule, error) {
	out, err := s.schedules.Search(ctx, q)
	if err != nil {
		return nil, storageErr("search schedules", err)
	}
	return out, nil
}

// GetSchedule is a plain read: the seat count may be stale by the time
// the caller acts on it.
func (s *CatalogService) GetSchedule(ctx context.Context, id uint64) (*model.Schedule, error) {
	sc, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, storageErr("get schedule", err)
	}
	return sc, nil
}

// MinFare returns the cheapest fare among cts, or nil when cts is empty.
func MinFare(cts []PricedCoachType) *decimal.Decimal {
	if len(cts) == 0 {
		return nil
	}
	min := cts[0].Fare
	for _, ct := range cts[1:] {
		if ct.Fare.LessThan(min) {
			min = ct.Fare
		}
	}
	return &min
}
