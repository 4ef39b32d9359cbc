package handler // declare the package name; contains HTTP handlers

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports whether the service and its storage backend are
// reachable.  The web client polls it to drive the connection badge.
type HealthHandler struct {
	DB *sql.DB // nil when running on the in-memory store
}

// Health handles GET /api/health.  When a database is configured it is
// pinged; a failed ping yields a 500 so monitors and the client see the
// outage.  In memory mode the process being up is the whole story.
func (h *HealthHandler) Health(c echo.Context) error {
	if h.DB != nil {
		if err := h.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
