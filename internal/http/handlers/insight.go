package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mindtrack-backend/internal/http/response"
	"github.com/yungbote/mindtrack-backend/internal/services"
)

type InsightHandler struct {
	insights services.InsightService
}

func NewInsightHandler(insights services.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// GET /checkins/:id/insights
func (h *InsightHandler) ForCheckIn(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	in, err := h.insights.ForCheckIn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err, "insights_failed")
		return
	}
	response.RespondOK(c, gin.H{"insights": in})
}

// GET /insights/latest
func (h *InsightHandler) Latest(c *gin.Context) {
	in, err := h.insights.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err, "insights_failed")
		return
	}
	response.RespondOK(c, gin.H{"insights": in})
}

// GET /insights/history?limit=N
func (h *InsightHandler) History(c *gin.Context) {
	limit, err := queryLimit(c)
	if err != nil {
		response.Error(c, err, "invalid_request")
		return
	}
	points, err := h.insights.History(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err, "insight_history_failed")
		return
	}
	response.RespondOK(c, gin.H{"history": points})
}
