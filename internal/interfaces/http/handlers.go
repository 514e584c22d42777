package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dcerge/carexpenses-api-sub002/internal/application/service"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/observability/metrics"
	"github.com/dcerge/carexpenses-api-sub002/pkg/utils"
)

const dateParamLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	reportService service.ReportService
	exportService service.ReportExportService
	logger        Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	reportService service.ReportService,
	exportService service.ReportExportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		reportService: reportService,
		exportService: exportService,
		logger:        logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// parseFilter builds the report filter from shared query parameters.
func parseFilter(c *gin.Context, requireDates bool) (entity.ReportFilter, bool) {
	filter := entity.ReportFilter{
		VehicleIDs:  splitParam(c.Query("vehicleIds")),
		TagIDs:      splitParam(c.Query("tagIds")),
		TravelTypes: splitParam(c.Query("travelTypes")),
	}

	var err error
	if from := c.Query("dateFrom"); from != "" {
		filter.DateFrom, err = time.Parse(dateParamLayout, from)
		if err != nil {
			badRequest(c, "invalid dateFrom, expected YYYY-MM-DD")
			return filter, false
		}
	}
	if to := c.Query("dateTo"); to != "" {
		filter.DateTo, err = time.Parse(dateParamLayout, to)
		if err != nil {
			badRequest(c, "invalid dateTo, expected YYYY-MM-DD")
			return filter, false
		}
	}

	if requireDates {
		if err := utils.ValidateDateRange(filter.DateFrom, filter.DateTo); err != nil {
			badRequest(c, err.Error())
			return filter, false
		}
	}
	return filter, true
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(utils.SanitizeString(p)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   msg,
	})
}

// GetPeriodReport handles GET /api/v1/reports/period
func (h *Handlers) GetPeriodReport(c *gin.Context) {
	filter, ok := parseFilter(c, true)
	if !ok {
		return
	}
	accountID := c.GetString(contextAccountID)

	start := time.Now()
	report, err := h.reportService.BuildPeriodReport(c.Request.Context(), accountID, filter)
	if err != nil {
		metrics.ObserveReportBuild("period", metrics.ResultError, time.Since(start))
		h.logger.Error("Failed to build period report", "account_id", accountID, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to build period report",
		})
		return
	}
	metrics.ObserveReportBuild("period", metrics.ResultSuccess, time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

// GetYearlyReport handles GET /api/v1/reports/yearly
func (h *Handlers) GetYearlyReport(c *gin.Context) {
	yearStr := c.Query("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		badRequest(c, "invalid year")
		return
	}
	if err := utils.ValidateYear(year); err != nil {
		badRequest(c, err.Error())
		return
	}

	filter, ok := parseFilter(c, false)
	if !ok {
		return
	}
	accountID := c.GetString(contextAccountID)

	start := time.Now()
	report, err := h.reportService.BuildYearlyReport(c.Request.Context(), accountID, year, filter)
	if err != nil {
		metrics.ObserveReportBuild("yearly", metrics.ResultError, time.Since(start))
		h.logger.Error("Failed to build yearly report", "account_id", accountID, "year", year, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to build yearly report",
		})
		return
	}
	metrics.ObserveReportBuild("yearly", metrics.ResultSuccess, time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

// GetTravelReport handles GET /api/v1/reports/travel
func (h *Handlers) GetTravelReport(c *gin.Context) {
	filter, ok := parseFilter(c, true)
	if !ok {
		return
	}
	accountID := c.GetString(contextAccountID)

	start := time.Now()
	report, err := h.reportService.BuildTravelReport(c.Request.Context(), accountID, filter)
	if err != nil {
		metrics.ObserveReportBuild("travel", metrics.ResultError, time.Since(start))
		h.logger.Error("Failed to build travel report", "account_id", accountID, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to build travel report",
		})
		return
	}
	metrics.ObserveReportBuild("travel", metrics.ResultSuccess, time.Since(start))

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

// ExportTravelReport handles GET /api/v1/reports/travel/export
func (h *Handlers) ExportTravelReport(c *gin.Context) {
	format := c.DefaultQuery("format", service.ExportFormatXLSX)
	if format != service.ExportFormatXLSX && format != service.ExportFormatPDF {
		badRequest(c, "format must be xlsx or pdf")
		return
	}

	filter, ok := parseFilter(c, true)
	if !ok {
		return
	}
	accountID := c.GetString(contextAccountID)

	report, err := h.reportService.BuildTravelReport(c.Request.Context(), accountID, filter)
	if err != nil {
		h.logger.Error("Failed to build travel report for export", "account_id", accountID, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to build travel report",
		})
		return
	}

	start := time.Now()
	data, filename, err := h.exportService.ExportTravelReport(c.Request.Context(), report, format)
	if err != nil {
		metrics.ObserveReportExport(format, metrics.ResultError, time.Since(start))
		h.logger.Error("Failed to export travel report", "account_id", accountID, "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to export travel report",
		})
		return
	}
	metrics.ObserveReportExport(format, metrics.ResultSuccess, time.Since(start))

	contentType := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if format == service.ExportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
