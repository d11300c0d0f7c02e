package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snapboard/webclient/internal/core/domain"
	"github.com/snapboard/webclient/internal/core/ports"
)

// ReportsHandler serves the moderation queue for managers and admins.
type ReportsHandler struct {
	reports ports.ReportAPI
	screens *Screens
}

func NewReportsHandler(reports ports.ReportAPI, screens *Screens) *ReportsHandler {
	return &ReportsHandler{reports: reports, screens: screens}
}

type reportsData struct {
	Reports []domain.Report     `json:"reports"`
	Status  domain.ReportStatus `json:"status"`
	Pending int                 `json:"pending"`
}

// List renders reports with the given status, pending by default.
//
// @Summary      Moderation queue
// @Tags         reports
// @Produce      json
// @Param        status  query     string  false  "pending or resolved"
// @Success      200  {object}  Screen
// @Success      303
// @Router       /manage-reports [get]
func (h *ReportsHandler) List(c echo.Context) error {
	status := domain.ReportStatus(c.QueryParam("status"))
	switch status {
	case "":
		status = domain.ReportPending
	case domain.ReportPending, domain.ReportResolved:
	default:
		return domain.NewValidationError("status must be one of: pending resolved")
	}

	ctx := c.Request().Context()
	reports, err := h.reports.Reports(ctx, status)
	if err != nil {
		return err
	}
	pending, err := h.reports.PendingReportsCount(ctx)
	if err != nil {
		return err
	}
	return h.screens.Render(c, http.StatusOK, "manage-reports", reportsData{
		Reports: reports,
		Status:  status,
		Pending: pending,
	})
}

// Resolve closes a report, optionally deleting the reported image.
//
// @Summary      Resolve report
// @Tags         reports
// @Accept       json
// @Param        id    path  int                true  "Report ID"
// @Param        body  body  domain.Resolution  true  "Resolution"
// @Success      204
// @Router       /manage-reports/{id}/resolve [put]
func (h *ReportsHandler) Resolve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var res domain.Resolution
	if err := bind(c, &res); err != nil {
		return err
	}
	if err := h.reports.ResolveReport(c.Request().Context(), id, res); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PendingCount returns the number of open reports for the nav badge.
//
// @Summary      Pending report count
// @Tags         reports
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /manage-reports/pending-count [get]
func (h *ReportsHandler) PendingCount(c echo.Context) error {
	n, err := h.reports.PendingReportsCount(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"pending": n})
}
