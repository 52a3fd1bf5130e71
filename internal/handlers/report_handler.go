package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/evaluation-service/internal/models"
	"github.com/SAP-F-2025/evaluation-service/internal/services"
	"github.com/SAP-F-2025/evaluation-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv; charset=utf-8"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	exportService services.ExportService
	now           func() time.Time
}

func NewReportHandler(reportService services.ReportService, exportService services.ExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		exportService: exportService,
		now:           time.Now,
	}
}

// GetOverview returns every teacher's aggregate
// @Summary Teacher overview report
// @Tags reports
// @Produce json
// @Param sort query string false "name or rating"
// @Success 200 {object} SuccessResponse{data=services.OverviewReport}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /reports/teachers [get]
func (h *ReportHandler) GetOverview(c *gin.Context) {
	report, err := h.reportService.GetOverview(c.Request.Context(), c.Query("sort"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Report generated", Data: report})
}

// GetTeacherReport returns one teacher's aggregate, question matrix and comments
// @Summary Teacher detail report
// @Tags reports
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} SuccessResponse{data=services.TeacherReport}
// @Failure 404 {object} ErrorResponse
// @Router /reports/teachers/{id} [get]
func (h *ReportHandler) GetTeacherReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	report, err := h.reportService.GetTeacherReport(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Report generated", Data: report})
}

// ExportOverview downloads the overview report
// @Summary Export overview report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param format query string false "xlsx or csv"
// @Param sort query string false "name or rating"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Router /reports/export [get]
func (h *ReportHandler) ExportOverview(c *gin.Context) {
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportXLSX)))

	h.LogRequest(c, "Exporting overview report", "format", format)

	// buffered so a failure can still be answered with a JSON error
	var buf bytes.Buffer
	if err := h.exportService.ExportOverview(c.Request.Context(), format, c.Query("sort"), &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("teacher-evaluations-%s.%s", h.now().Format("20060102"), format)
	h.sendFile(c, filename, contentTypeFor(format), buf.Bytes())
}

// ExportTeacher downloads one teacher's report as an xlsx workbook
// @Summary Export teacher report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Teacher ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /reports/teachers/{id}/export [get]
func (h *ReportHandler) ExportTeacher(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Exporting teacher report", "teacher_id", id)

	var buf bytes.Buffer
	if err := h.exportService.ExportTeacher(c.Request.Context(), id, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("teacher-%s-evaluations-%s.xlsx", id, h.now().Format("20060102"))
	h.sendFile(c, filename, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func contentTypeFor(format models.ExportFormat) string {
	if format == models.ExportCSV {
		return csvContentType
	}
	return xlsxContentType
}
