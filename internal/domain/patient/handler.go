package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/klinik/klinik/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the patient routes. Reads require authentication only;
// writes additionally pass through the given gate.
func (h *Handler) Register(g *echo.Group, writeGate echo.MiddlewareFunc) {
	g.GET("/patients", h.List)
	g.GET("/patients/summary", h.Summary)
	g.GET("/patients/:id", h.Get)
	g.POST("/patients", h.Create, writeGate)
	g.PUT("/patients/:id", h.Update, writeGate)
	g.DELETE("/patients/:id", h.Delete, writeGate)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	f := ListFilter{
		Name:  c.QueryParam("name"),
		Limit: p.Limit,
		Skip:  p.Skip,
	}
	if v := c.QueryParam("start_date"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		f.VisitFrom = &d
	}
	if v := c.QueryParam("end_date"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		f.VisitTo = &d
	}

	items, total, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Summary(c echo.Context) error {
	s, err := h.service.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
