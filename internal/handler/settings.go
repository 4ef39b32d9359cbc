package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arendsv/guesthouse-booking/internal/model"
	"github.com/arendsv/guesthouse-booking/internal/repository"
)

// SettingsHandler serves the per-room display settings (names and
// colors).  Settings are pure presentation state consumed by the
// calendar and exports; the allocator never sees them, so changing a
// room's name can never affect capacity or assignment.
type SettingsHandler struct {
	Repo *repository.SettingsRepo
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(repo *repository.SettingsRepo) *SettingsHandler {
	if repo == nil {
		panic("nil repository passed to NewSettingsHandler")
	}
	return &SettingsHandler{Repo: repo}
}

// Get handles GET /api/settings/rooms.  Defaults are served when
// nothing has been stored or Redis is unavailable.
func (h *SettingsHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"items": h.Repo.Load(c.Request().Context()),
	})
}

// Put handles PUT /api/settings/rooms.  The body must contain exactly
// one entry per room, numbered 1..TotalRooms, each with a non-empty
// name.
func (h *SettingsHandler) Put(c echo.Context) error {
	var body struct {
		Items []model.RoomSetting `json:"items"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if len(body.Items) != model.TotalRooms {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "settings must cover every room exactly once"})
	}
	seen := make(map[int]bool, model.TotalRooms)
	for _, s := range body.Items {
		if s.Number < 1 || s.Number > model.TotalRooms || seen[s.Number] {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "settings must cover every room exactly once"})
		}
		if strings.TrimSpace(s.Name) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "room name must not be empty"})
		}
		seen[s.Number] = true
	}
	if err := h.Repo.Save(c.Request().Context(), body.Items); err != nil {
		if errors.Is(err, repository.ErrSettingsUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "settings storage is unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to save settings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": body.Items})
}
