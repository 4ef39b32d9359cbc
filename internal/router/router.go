package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/arendsv/guesthouse-booking/internal/handler" // import the handlers that implement business logic
)

// Handlers bundles everything the routes need.  The router itself holds
// no logic; it only maps paths onto handlers.
type Handlers struct {
	Health   *handler.HealthHandler
	Booking  *handler.BookingHandler
	Settings *handler.SettingsHandler
	Export   *handler.ExportHandler
}

// RegisterRoutes wires the booking API under /api.  The health endpoint
// can be used by load balancers, monitoring systems and the web client's
// connection badge to verify that the service (and its database, when
// one is configured) is up.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/api/health", h.Health.Health)

	e.GET("/api/bookings", h.Booking.List)
	e.POST("/api/bookings", h.Booking.Create)
	e.PUT("/api/bookings/:id", h.Booking.Update)
	e.DELETE("/api/bookings/:id", h.Booking.Delete)

	// Export before the :id routes matters only for readability; Echo
	// matches static segments ahead of parameters either way.
	e.GET("/api/bookings/export", h.Export.Export)

	e.GET("/api/settings/rooms", h.Settings.Get)
	e.PUT("/api/settings/rooms", h.Settings.Put)
}
