package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arendsv/guesthouse-booking/internal/model"
	"github.com/arendsv/guesthouse-booking/internal/repository"
	"github.com/arendsv/guesthouse-booking/internal/service"
)

// ExportHandler renders the booking list as a downloadable file.  It is
// a pure consumer of already-validated bookings: it performs no
// capacity or allocation logic of its own.  Room display names come
// from the settings store so exports match what the operator sees on
// the calendar.
type ExportHandler struct {
	Svc      *service.BookingService
	Settings *repository.SettingsRepo
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(svc *service.BookingService, settings *repository.SettingsRepo) *ExportHandler {
	if svc == nil || settings == nil {
		panic("nil dependency passed to NewExportHandler")
	}
	return &ExportHandler{Svc: svc, Settings: settings}
}

// Export handles GET /api/bookings/export?format=csv|json.  CSV is the
// default.
func (h *ExportHandler) Export(c echo.Context) error {
	bookings, err := h.Svc.List(c.Request().Context(), "")
	if err != nil {
		return writeBookingErr(c, err, "Failed to load bookings")
	}

	stamp := strconv.FormatInt(time.Now().Unix(), 10)
	switch strings.ToLower(c.QueryParam("format")) {
	case "", "csv":
		settings := h.Settings.Load(c.Request().Context())
		body, err := renderCSV(bookings, settings)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to render export"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="bookings-%s.csv"`, stamp))
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", body)
	case "json":
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="bookings-%s.json"`, stamp))
		return c.JSONPretty(http.StatusOK, bookings, "  ")
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "format must be csv or json"})
	}
}

// renderCSV writes one row per booking with the columns the web
// client's export always used: Date, Guest Name, Number of Rooms,
// Rooms, Remarks.  The Rooms column lists the configured display names
// of the assigned rooms.
func renderCSV(bookings []model.Booking, settings []model.RoomSetting) ([]byte, error) {
	names := make(map[int]string, len(settings))
	for _, s := range settings {
		names[s.Number] = s.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Guest Name", "Number of Rooms", "Rooms", "Remarks"}); err != nil {
		return nil, err
	}
	for _, b := range bookings {
		rooms := make([]string, 0, len(b.RoomNumbers))
		for _, n := range b.RoomNumbers {
			name, ok := names[n]
			if !ok {
				name = "Room " + strconv.Itoa(n)
			}
			rooms = append(rooms, name)
		}
		row := []string{
			b.Date,
			b.GuestName,
			strconv.Itoa(b.RoomCount),
			strings.Join(rooms, ", "),
			b.Remarks,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
