package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindtrack-backend/internal/http/response"
	"github.com/yungbote/mindtrack-backend/internal/services"
)

type ReportHandler struct {
	reports services.ReportService
}

func NewReportHandler(reports services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// POST /checkins/:id/report
func (h *ReportHandler) Export(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	res, err := h.reports.Export(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "report_export_failed")
		return
	}
	response.RespondCreated(c, res)
}

// GET /checkins/:id/report.png
func (h *ReportHandler) Download(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	png, name, err := h.reports.RenderPNG(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "report_render_failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// GET /reports/:id
func (h *ReportHandler) Stored(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	body, name, err := h.reports.Stored(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "report_download_failed")
		return
	}
	defer body.Close()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		_ = c.Error(err)
	}
}

// GET /shared/:token (public)
func (h *ReportHandler) Shared(c *gin.Context) {
	payload, err := h.reports.Shared(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err, "invalid_share_token")
		return
	}
	response.RespondOK(c, payload)
}
