package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/horizonapp/core/internal/domain/entities"
	"github.com/horizonapp/core/internal/infrastructure/logger"
	"github.com/horizonapp/core/internal/ports"
)

// StateHandler exposes the shared application-state record
type StateHandler struct {
	store  ports.AppStateStore
	logger *logger.Logger
}

// NewStateHandler creates a new state handler
func NewStateHandler(store ports.AppStateStore, logger *logger.Logger) *StateHandler {
	return &StateHandler{
		store:  store,
		logger: logger,
	}
}

// GetState returns the current application state
func (h *StateHandler) GetState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.State())
}

// SelectTab switches the selected tab
func (h *StateHandler) SelectTab(c echo.Context) error {
	var req struct {
		Tab entities.AppTab `json:"tab" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if !req.Tab.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tab")
	}

	if err := h.store.SelectTab(c.Request().Context(), req.Tab); err != nil {
		h.logger.Error("Select tab failed", "error", err, "tab", req.Tab)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.store.State())
}

// CompleteOnboarding marks onboarding done
func (h *StateHandler) CompleteOnboarding(c echo.Context) error {
	if err := h.store.CompleteOnboarding(c.Request().Context()); err != nil {
		h.logger.Error("Complete onboarding failed", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.store.State())
}
