package handlers

import (
	"net/http"
	"strconv"

	"github.com/agamariel/bankdash/internal/services"
	"github.com/labstack/echo/v4"
)

// DashboardHandler отдаёт сводку и дневные срезы балансов.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary обрабатывает GET /api/dashboard.
func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.dashboardService.Summary(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to build dashboard: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, summary)
}

// Snapshots обрабатывает GET /api/snapshots?days=N.
func (h *DashboardHandler) Snapshots(c echo.Context) error {
	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 366 {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be between 1 and 366")
		}
		days = n
	}

	snapshots, err := h.dashboardService.Snapshots(c.Request().Context(), days)
	if err != nil {
		c.Logger().Errorf("failed to get snapshots: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if len(snapshots) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, snapshots)
}
