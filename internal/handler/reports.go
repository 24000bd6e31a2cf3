package handler

import (
	"net/http"

	"minakistock/internal/dto"
	"minakistock/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{ svc service.ReportService }

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// POST /inventory/reports/summary
// Queues a summary report; PDF rendering and delivery happen asynchronously.
func (h *ReportHandler) DispatchSummary(c *gin.Context) {
	var req dto.SummaryReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DispatchSummaryReport(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
