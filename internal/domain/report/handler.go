package report

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/klinik/klinik/internal/domain/patient"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(g *echo.Group) {
	g.GET("/reports/patients", h.Patients)
	g.GET("/reports/patients/export", h.Export)
}

func filterFromQuery(c echo.Context) (patient.ListFilter, error) {
	f := patient.ListFilter{Name: c.QueryParam("name")}
	if v := c.QueryParam("start_date"); v != "" {
		d, err := patient.ParseDate(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		f.VisitFrom = &d
	}
	if v := c.QueryParam("end_date"); v != "" {
		d, err := patient.ParseDate(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		f.VisitTo = &d
	}
	return f, nil
}

func (h *Handler) Patients(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	rows, summary, err := h.service.Patients(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patients": rows,
		"summary":  summary,
	})
}

func (h *Handler) Export(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	buf, err := h.service.ExportPatients(c.Request().Context(), f)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, ExportFilename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
