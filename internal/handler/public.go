package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/service"
)

const dateLayout = "2006-01-02"

// PublicHandler exposes the read-only browse endpoints: stations, coach
// types, schedule search and schedule details.  No authentication applies.
type PublicHandler struct {
	Catalog Catalog
	Log     *logrus.Logger
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must be
// non-nil.
func NewPublicHandler(catalog Catalog, log *logrus.Logger) *PublicHandler {
	if catalog == nil || log == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Catalog: catalog, Log: log}
}

// ListStations handles GET /v1/stations.
func (h *PublicHandler) ListStations(c echo.Context) error {
	stations, err := h.Catalog.ListStations(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stations})
}

// ListCoachTypes handles GET /v1/coach-types.  Each entry carries its
// payable fare next to the base fare and multiplier.
func (h *PublicHandler) ListCoachTypes(c echo.Context) error {
	cts, err := h.Catalog.ListCoachTypes(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": coachTypeViews(cts)})
}

// SearchSchedules handles GET /v1/schedules/search?source=&destination=&date=.
// source and destination are station ids and date is YYYY-MM-DD.  The
// response lists matching schedules by departure time together with the
// coach types and the cheapest fare on offer.
func (h *PublicHandler) SearchSchedules(c echo.Context) error {
	src := strings.TrimSpace(c.QueryParam("source"))
	dst := strings.TrimSpace(c.QueryParam("destination"))
	date := strings.TrimSpace(c.QueryParam("date"))
	if src == "" || dst == "" || date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please provide source, destination and travel date."})
	}
	srcID, err1 := strconv.ParseUint(src, 10, 64)
	dstID, err2 := strconv.ParseUint(dst, 10, 64)
	if err1 != nil || err2 != nil || srcID == 0 || dstID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid station id"})
	}
	if srcID == dstID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "source and destination must differ"})
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid travel date."})
	}

	ctx := c.Request().Context()
	schedules, err := h.Catalog.SearchSchedules(ctx, repository.ScheduleSearchQuery{
		SourceStationID:      srcID,
		DestinationStationID: dstID,
		TravelDate:           date,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	cts, err := h.Catalog.ListCoachTypes(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	views := make([]scheduleView, 0, len(schedules))
	for _, s := range schedules {
		views = append(views, newScheduleView(s))
	}
	var minFare *string
	if m := service.MinFare(cts); m != nil {
		s := m.StringFixed(2)
		minFare = &s
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":        views,
		"coach_types": coachTypeViews(cts),
		"min_fare":    minFare,
		"travel_date": date,
	})
}

// GetSchedule handles GET /v1/schedules/:id.  The seat count is a snapshot;
// booking re-reads it under lock.
func (h *PublicHandler) GetSchedule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()
	s, err := h.Catalog.GetSchedule(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	cts, err := h.Catalog.ListCoachTypes(ctx)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"schedule":    newScheduleView(*s),
		"coach_types": coachTypeViews(cts),
	})
}
