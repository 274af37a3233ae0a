package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/service"
)

// respondError maps service errors onto HTTP statuses.  Storage failures
// are logged and reported without detail.
func respondError(c echo.Context, log *logrus.Logger, err error) error {
	var se *service.StorageError
	switch {
	case errors.As(err, &se):
		log.WithError(err).WithField("op", se.Op).Error("storage failure")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	case errors.Is(err, service.ErrNoSeatsLeft):
		return c.JSON(http.StatusConflict, echo.Map{"error": "No seats left for this schedule."})
	case errors.Is(err, service.ErrAlreadySettled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking has already been settled"})
	case errors.Is(err, service.ErrTicketNotConfirmed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket is not confirmed yet"})
	case errors.Is(err, service.ErrInvalidBooking):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		log.WithError(err).Error("unhandled error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
