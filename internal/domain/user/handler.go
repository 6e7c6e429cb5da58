package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/klinik/klinik/internal/platform/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/users/me", h.Me)
}

// Me returns the authenticated caller's stored profile.
func (h *Handler) Me(c echo.Context) error {
	p := auth.PrincipalFromContext(c.Request().Context())
	if p == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, p)
}
