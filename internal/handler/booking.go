package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arendsv/guesthouse-booking/internal/repository"
	"github.com/arendsv/guesthouse-booking/internal/service"
)

// BookingHandler exposes the booking CRUD endpoints.  All capacity and
// allocation decisions live in the service; the handler only binds
// payloads and translates the service's error taxonomy into HTTP
// responses.
type BookingHandler struct {
	Svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  The service must be non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// writeBookingErr maps service and repository errors onto the HTTP
// responses the web client expects:
//
//	ValidationError  -> 400 with the field message
//	CapacityError    -> 409 with the remaining headroom ("Only N room(s) available")
//	ErrBookingNotFound -> 404
//	ErrDuplicateBooking -> 409, the supplied id is already taken
//	ErrRoomConflict  -> 409, concurrent writer won the date; retry
//	anything else    -> 500, generic message (details stay in the server log)
func writeBookingErr(c echo.Context, err error, fallback string) error {
	var valErr *service.ValidationError
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": valErr.Message})
	}
	var capErr *service.CapacityError
	if errors.As(err, &capErr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":  capErr.Error(),
			"headroom": capErr.Headroom,
		})
	}
	if errors.Is(err, repository.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
	}
	if errors.Is(err, repository.ErrDuplicateBooking) {
		return c.JSON(http.StatusConflict, echo.Map{"message": "A booking with this id already exists."})
	}
	if errors.Is(err, repository.ErrRoomConflict) {
		return c.JSON(http.StatusConflict, echo.Map{"message": "Unable to save booking, please try again."})
	}
	c.Logger().Errorf("booking: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": fallback})
}

// List handles GET /api/bookings.  It returns every booking ordered by
// date then creation time; the optional ?date=YYYY-MM-DD query narrows
// the result to one day for calendar views.
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.Svc.List(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return writeBookingErr(c, err, "Failed to load bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// Create handles POST /api/bookings.  The payload supplies date, guest
// name, room count and remarks; room numbers are always computed
// server-side and any client-sent value is ignored.
func (h *BookingHandler) Create(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing booking data"})
	}
	b, err := h.Svc.Create(c.Request().Context(), in)
	if err != nil {
		return writeBookingErr(c, err, "Failed to create booking")
	}
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /api/bookings/:id.  The id comes from the path;
// an id in the body is ignored.  Room numbers are recomputed against
// the other bookings on the (possibly new) date.
func (h *BookingHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing booking data"})
	}
	b, err := h.Svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeBookingErr(c, err, "Failed to update booking")
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/:id.  A successful delete frees
// the booking's rooms for that date immediately and returns 204.
func (h *BookingHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return writeBookingErr(c, err, "Failed to delete booking")
	}
	return c.NoContent(http.StatusNoContent)
}
