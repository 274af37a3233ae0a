package handler

import (
	"time"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/service"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// Amounts leave the API as fixed two-decimal strings.

type coachTypeView struct {
	ID             uint64  `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	BaseFare       string  `json:"base_fare"`
	FareMultiplier string  `json:"fare_multiplier"`
	FareAmount     string  `json:"fare_amount"`
}

func coachTypeViews(cts []service.PricedCoachType) []coachTypeView {
	out := make([]coachTypeView, 0, len(cts))
	for _, ct := range cts {
		out = append(out, coachTypeView{
			ID:             ct.ID,
			Code:           ct.Code,
			Name:           ct.Name,
			Description:    ct.Description,
			BaseFare:       utils.FormatAmount(ct.BaseFare),
			FareMultiplier: ct.FareMultiplier.StringFixed(2),
			FareAmount:     utils.FormatAmount(ct.Fare),
		})
	}
	return out
}

type scheduleView struct {
	ID              uint64 `json:"schedule_id"`
	TrainName       string `json:"train_name"`
	TrainNumber     string `json:"train_number"`
	SourceCode      string `json:"source_code"`
	SourceName      string `json:"source_name"`
	DestinationCode string `json:"destination_code"`
	DestinationName string `json:"destination_name"`
	TravelDate      string `json:"travel_date"`
	DepartureTime   string `json:"departure_time"`
	ArrivalTime     string `json:"arrival_time"`
	AvailableSeats  int    `json:"available_seats"`
}

func newScheduleView(s model.Schedule) scheduleView {
	return scheduleView{
		ID:              s.ID,
		TrainName:       s.TrainName,
		TrainNumber:     s.TrainNumber,
		SourceCode:      s.SourceCode,
		SourceName:      s.SourceName,
		DestinationCode: s.DestinationCode,
		DestinationName: s.DestinationName,
		TravelDate:      s.TravelDate.Format(dateLayout),
		DepartureTime:   s.DepartureTime,
		ArrivalTime:     s.ArrivalTime,
		AvailableSeats:  s.AvailableSeats,
	}
}

type bookingView struct {
	BookingID     uint64              `json:"booking_id"`
	PNR           string              `json:"pnr"`
	Status        model.BookingStatus `json:"status"`
	PassengerName string              `json:"passenger_name"`
	Email         *string             `json:"email"`
	SeatNumber    string              `json:"seat_number"`
	FareAmount    string              `json:"fare_amount"`
	CoachCode     string              `json:"coach_code"`
	CoachName     string              `json:"coach_name"`
	ScheduleID    uint64              `json:"schedule_id"`
	TrainName     string              `json:"train_name"`
	TrainNumber   string              `json:"train_number"`
	From          string              `json:"source_name"`
	To            string              `json:"destination_name"`
	TravelDate    string              `json:"travel_date"`
	DepartureTime string              `json:"departure_time"`
	ArrivalTime   string              `json:"arrival_time"`
	BookedAt      time.Time           `json:"booked_at"`
	IssuedAt      time.Time           `json:"issued_at"`
}

func newBookingView(d *repository.BookingDetail) bookingView {
	return bookingView{
		BookingID:     d.BookingID,
		PNR:           d.PNR,
		Status:        d.Status,
		PassengerName: d.PassengerName,
		Email:         d.Email,
		SeatNumber:    d.SeatNumber,
		FareAmount:    utils.FormatAmount(d.FareAmount),
		CoachCode:     d.CoachCode,
		CoachName:     d.CoachName,
		ScheduleID:    d.ScheduleID,
		TrainName:     d.TrainName,
		TrainNumber:   d.TrainNumber,
		From:          d.SourceName,
		To:            d.DestinationName,
		TravelDate:    d.TravelDate.Format(dateLayout),
		DepartureTime: d.DepartureTime,
		ArrivalTime:   d.ArrivalTime,
		BookedAt:      d.CreatedAt,
		IssuedAt:      d.IssuedAt,
	}
}

type paymentView struct {
	ID        uint64              `json:"id"`
	Amount    string              `json:"amount"`
	Status    model.PaymentStatus `json:"status"`
	Method    string              `json:"method"`
	CreatedAt time.Time           `json:"created_at"`
}

func paymentViews(ps []model.Payment) []paymentView {
	out := make([]paymentView, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentView{ID: p.ID, Amount: utils.FormatAmount(p.Amount), Status: p.Status, Method: p.Method, CreatedAt: p.CreatedAt})
	}
	return out
}
