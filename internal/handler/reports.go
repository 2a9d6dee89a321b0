package handler

import (
	"fmt"
	"net/http"
	"time"

	"stockroom/internal/apierror"
	"stockroom/internal/dto"
	"stockroom/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.Summary(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	data, err := h.svc.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to export report"))
		return
	}
	serveExport(c, data, "text/csv", "csv")
}

func (h *ReportsHandler) ExportXLSX(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	data, err := h.svc.ExportXLSX(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to export report"))
		return
	}
	serveExport(c, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx")
}

func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	filter, ok := bindReportFilter(c)
	if !ok {
		return
	}
	data, err := h.svc.ExportPDF(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to export report"))
		return
	}
	serveExport(c, data, "application/pdf", "pdf")
}

func bindReportFilter(c *gin.Context) (dto.ReportFilter, bool) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query parameters"))
		return filter, false
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Dates must use YYYY-MM-DD"))
		return filter, false
	}
	return filter, true
}

func serveExport(c *gin.Context, data []byte, contentType, ext string) {
	filename := fmt.Sprintf("inventory_report_%s.%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
