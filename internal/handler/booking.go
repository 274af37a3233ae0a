package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/middleware"
	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/service"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// paymentDeclinedMessage tells the customer how to get the stub processor
// to approve.
const paymentDeclinedMessage = "Payment failed. Try another card number ending with an even digit."

// BookingHandler serves the booking, payment and ticket endpoints.
type BookingHandler struct {
	Catalog  Catalog
	Bookings Bookings
	Payments Settler
	Checkout *utils.CheckoutSigner
	Log      *logrus.Logger
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must be
// non-nil.
func NewBookingHandler(catalog Catalog, bookings Bookings, payments Settler, checkout *utils.CheckoutSigner, log *logrus.Logger) *BookingHandler {
	if catalog == nil || bookings == nil || payments == nil || checkout == nil || log == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Catalog: catalog, Bookings: bookings, Payments: payments, Checkout: checkout, Log: log}
}

// CreateBooking handles POST /v1/schedules/:id/bookings.  The body carries
// the passenger name, an optional email and the chosen coach type.  The
// fare is priced from the coach type before the seat is reserved.  On
// success it returns 201 with the seat, reference code and a checkout
// token that authorises the payment call.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var body struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		CoachTypeID uint64 `json:"coach_type_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid coach selection."})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Passenger name is required."})
	}
	if body.CoachTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please choose a coach type."})
	}

	ctx := c.Request().Context()
	if _, err := h.Catalog.GetSchedule(ctx, scheduleID); err != nil {
		return respondError(c, h.Log, err)
	}
	ct, err := h.Catalog.GetCoachType(ctx, body.CoachTypeID)
	if err != nil {
		if errors.Is(err, service.ErrCoachTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Selected coach type is unavailable."})
		}
		return respondError(c, h.Log, err)
	}

	res, err := h.Bookings.CreateBooking(ctx, service.NewBooking{
		ScheduleID:    scheduleID,
		CoachTypeID:   ct.ID,
		PassengerName: body.Name,
		Email:         body.Email,
		FareAmount:    ct.Fare,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}

	tok, err := h.Checkout.Issue(res.BookingID, res.PNR)
	if err != nil {
		h.Log.WithError(err).WithField("booking_id", res.BookingID).Error("checkout token not issued")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":          res.BookingID,
		"pnr":                 res.PNR,
		"seat_number":         res.SeatNumber,
		"fare_amount":         utils.FormatAmount(res.FareAmount),
		"status":              res.Status,
		"checkout_token":      tok.Token,
		"checkout_expires_at": tok.Exp.Format(time.RFC3339),
	})
}

// GetBooking handles GET /v1/bookings/:id?pnr=.  The reference code must
// match the booking; a mismatch is reported as not found.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	pnr := strings.ToUpper(strings.TrimSpace(c.QueryParam("pnr")))
	if pnr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing booking information."})
	}
	ctx := c.Request().Context()
	d, err := h.Bookings.GetBooking(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if d.PNR != pnr {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found."})
	}
	payments, err := h.Bookings.ListPayments(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": newBookingView(d), "payments": paymentViews(payments)})
}

// Pay handles POST /v1/bookings/:id/pay.  It runs behind CheckoutAuth, so
// the token has already been matched to :id.  The card decides the
// outcome: 200 when confirmed, 402 when declined (the seat is released).
func (h *BookingHandler) Pay(c echo.Context) error {
	claims, ok := middleware.CheckoutClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing checkout token"})
	}
	id, _ := claims.BookingID()
	var body struct {
		Card string `json:"card"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Card) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing payment information."})
	}

	ctx := c.Request().Context()
	d, err := h.Bookings.GetBooking(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if d.PNR != claims.PNR {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "checkout token does not match booking"})
	}

	status, err := h.Payments.Settle(ctx, service.Settlement{
		BookingID: id,
		Success:   service.ApproveCard(body.Card),
		Method:    service.MethodCard,
		Amount:    d.FareAmount,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	if status != model.BookingConfirmed {
		return c.JSON(http.StatusPaymentRequired, echo.Map{
			"status":     status,
			"booking_id": id,
			"error":      paymentDeclinedMessage,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":     status,
		"booking_id": id,
		"pnr":        d.PNR,
		"amount":     utils.FormatAmount(d.FareAmount),
	})
}

// GetTicket handles GET /v1/tickets/:pnr.
func (h *BookingHandler) GetTicket(c echo.Context) error {
	d, err := h.Bookings.GetTicket(c.Request().Context(), c.Param("pnr"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": newBookingView(d)})
}

// GetTicketPDF handles GET /v1/tickets/:pnr/pdf and streams the e-ticket of
// a confirmed booking as an attachment.
func (h *BookingHandler) GetTicketPDF(c echo.Context) error {
	d, err := h.Bookings.GetTicket(c.Request().Context(), c.Param("pnr"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	pdf, err := service.RenderTicketPDF(d)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotConfirmed) {
			return respondError(c, h.Log, err)
		}
		h.Log.WithError(err).WithField("pnr", d.PNR).Error("ticket pdf failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not render ticket"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ticket-`+d.PNR+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
