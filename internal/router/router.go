package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/railway-seat-reservation/internal/handler"
)

// RegisterRoutes registers the probes.  /healthz reports liveness only;
// /readyz also pings the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// cache middleware is applied only to the reference data lists, which
// change rarely; schedule lookups carry live seat counts and are never
// cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.GET("/stations", p.ListStations, cache)
	g.GET("/coach-types", p.ListCoachTypes, cache)
	g.GET("/schedules/search", p.SearchSchedules)
	g.GET("/schedules/:id", p.GetSchedule)
}

// RegisterBooking registers the booking, payment and ticket endpoints.
// Booking creation and payment are rate limited; payment additionally
// requires the checkout token issued with the booking.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, limiter, checkout echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.POST("/schedules/:id/bookings", b.CreateBooking, limiter)
	g.GET("/bookings/:id", b.GetBooking)
	g.POST("/bookings/:id/pay", b.Pay, limiter, checkout)
	g.GET("/tickets/:pnr", b.GetTicket)
	g.GET("/tickets/:pnr/pdf", b.GetTicketPDF)
}
