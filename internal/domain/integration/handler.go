package integration

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the import route behind the given gate.
func (h *Handler) Register(g *echo.Group, writeGate echo.MiddlewareFunc) {
	g.POST("/integrations/patients/import", h.Import, writeGate)
}

func (h *Handler) Import(c echo.Context) error {
	var req ImportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.service.Import(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusCreated, map[string]int{"imported": n})
}
